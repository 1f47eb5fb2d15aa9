package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/alessalabs/medassist/agent/agents/orchestrator"
	responderx "github.com/alessalabs/medassist/agent/agents/responder"
	contractx "github.com/alessalabs/medassist/agent/contract"
	evaluatorx "github.com/alessalabs/medassist/agent/evaluator"
	llmx "github.com/alessalabs/medassist/agent/llm"
	promptx "github.com/alessalabs/medassist/agent/prompt"
	sessionx "github.com/alessalabs/medassist/agent/session"
	toolx "github.com/alessalabs/medassist/agent/tool"
	catalogx "github.com/alessalabs/medassist/pkg/catalog"
	configx "github.com/alessalabs/medassist/pkg/config"
	_ "github.com/alessalabs/medassist/pkg/logger/autoload"
	openrouterx "github.com/alessalabs/medassist/pkg/openrouter"
)

type AppConfig struct {
	SessionStore      string `envconfig:"SESSION_STORE" split_words:"true" default:"memory"`
	SessionID         string `envconfig:"SESSION_ID" split_words:"true"`
	EvaluateResponses bool   `envconfig:"EVALUATE_RESPONSES" split_words:"true" default:"false"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	catalogCfg := configx.MustNew[catalogx.Config]("CATALOG")

	// Fail fast on bad credentials before any graph compiles.
	openRouterClient := openrouterx.NewClient(llmCfg.OpenRouterFor(""))
	if openRouterClient == nil {
		panic("failed to initialize openrouter client")
	}

	store := newSessionStore(*appCfg)

	searcher := toolx.WithRetry(
		toolx.NewCatalogSearcher(catalogx.MustNew(*catalogCfg)), 0, 0,
	)

	models, err := responderx.NewRegistry(ctx, *llmCfg, searcher)
	if err != nil {
		panic(fmt.Sprintf("failed to build agent registry: %v", err))
	}

	evaluator := newEvaluator(ctx, *llmCfg)

	svc, err := orchestratorx.New(store, models, evaluator)
	if err != nil {
		panic(fmt.Sprintf("failed to build orchestrator: %v", err))
	}

	sessionID := strings.TrimSpace(appCfg.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log.Info().
		Str("session_id", sessionID).
		Str("session_store", appCfg.SessionStore).
		Msg("assistant ready")

	runChat(ctx, svc, sessionID, appCfg.EvaluateResponses)
}

func newSessionStore(cfg AppConfig) sessionx.Store {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionStore)) {
	case "", "memory":
		return sessionx.NewMemoryStore()
	case "upstash":
		redisCfg := configx.MustNew[sessionx.UpstashRedisConfig]("UPSTASH_REDIS")
		store, err := sessionx.NewUpstashRedisStore(*redisCfg)
		if err != nil {
			panic(fmt.Sprintf("failed to initialize upstash session store: %v", err))
		}
		return store
	case "postgres":
		pgCfg := configx.MustNew[sessionx.PostgresConfig]("POSTGRES")
		store, err := sessionx.NewPostgresStore(*pgCfg)
		if err != nil {
			panic(fmt.Sprintf("failed to initialize postgres session store: %v", err))
		}
		if err := store.EnsureSchema(context.Background()); err != nil {
			panic(fmt.Sprintf("failed to ensure postgres schema: %v", err))
		}
		return store
	default:
		panic(fmt.Sprintf("unknown session store %q", cfg.SessionStore))
	}
}

func newEvaluator(ctx context.Context, cfg llmx.Config) contractx.Evaluator {
	modelCfg := cfg.OpenRouterFor(llmx.KindEvaluator)
	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to create evaluator model: %v", err))
	}

	svc, err := evaluatorx.New(ctx, chatModel, promptx.LoadPromptSet().Evaluator)
	if err != nil {
		panic(fmt.Sprintf("failed to build evaluator: %v", err))
	}
	return svc
}

func runChat(ctx context.Context, svc *orchestratorx.Orchestrator, sessionID string, evaluate bool) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Type a message (or 'exit' to quit):")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "exit" || text == "quit" {
			return
		}

		result, err := svc.HandleTurn(ctx, contractx.TurnRequest{
			SessionID:        sessionID,
			Text:             text,
			EvaluateResponse: evaluate,
		})
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			continue
		}

		fmt.Printf("[%s] %s\n", result.AgentType, result.Reply)
		for _, p := range result.Products {
			fmt.Printf("  - %s (%.2f %s) %s\n", p.Name, p.Price, p.Currency, p.URL)
		}
		if result.Evaluation != nil {
			fmt.Printf("  evaluation: overall=%d %s\n",
				result.Evaluation.OverallScore, result.Evaluation.Summary)
		}
	}
}
