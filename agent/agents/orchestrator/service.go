package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/alessalabs/medassist/agent/contract"
	turnnode "github.com/alessalabs/medassist/agent/nodes"
	routerx "github.com/alessalabs/medassist/agent/router"
	sessionx "github.com/alessalabs/medassist/agent/session"
)

var ErrInvalidSession = turnnode.ErrInvalidSession

// Orchestrator owns the per-turn pipeline: validate, load session, route,
// dispatch the routed agent, persist both turns, and optionally score the
// reply. Turns within one session are serialized; distinct sessions run
// concurrently.
type Orchestrator struct {
	store     sessionx.Store
	models    contractx.Registry
	evaluator contractx.Evaluator

	graphRunner compose.Runnable[turnnode.GraphInput, turnnode.GraphOutput]

	locksMu      sync.Mutex
	sessionLocks map[string]*sync.Mutex

	now func() time.Time
}

func New(
	store sessionx.Store,
	models contractx.Registry,
	evaluator contractx.Evaluator,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if models == nil {
		return nil, errors.New("agent registry is required")
	}

	o := &Orchestrator{
		store:        store,
		models:       models,
		evaluator:    evaluator,
		sessionLocks: make(map[string]*sync.Mutex),
		now:          time.Now,
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn processes one user turn end to end and returns the assistant
// reply with its routing and workflow metadata. When the request asks for
// evaluation and an evaluator is configured, the scored result is attached;
// evaluation never changes the reply itself.
func (o *Orchestrator) HandleTurn(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResult, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return contractx.TurnResult{}, ErrInvalidSession
	}

	lock := o.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	out, err := o.graphRunner.Invoke(ctx, turnnode.GraphInput{
		SessionID: sessionID,
		Text:      req.Text,
	})
	if err != nil {
		return contractx.TurnResult{}, err
	}

	result := out.Result
	if req.EvaluateResponse && o.evaluator != nil {
		eval := o.evaluator.Evaluate(ctx, req.Text, result.Reply, result.Products, result.AgentType)
		result.Evaluation = &eval
	}
	return result, nil
}

// RouteQuery classifies a query without running a turn or mutating the
// session.
func (o *Orchestrator) RouteQuery(ctx context.Context, sessionID string, query string) (contractx.AgentType, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", ErrInvalidSession
	}

	sess, err := o.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, sessionx.ErrSessionNotFound) {
			return "", err
		}
		sess = sessionx.New(sessionID, o.now().UTC())
	}

	return routerx.Route(strings.TrimSpace(query), sess), nil
}

func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()

	lock, ok := o.sessionLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		o.sessionLocks[sessionID] = lock
	}
	return lock
}
