package session

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

func TestAppendTurnAssignsDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := New("s1", now)

	if err := sess.AppendTurn(Turn{
		Role:      RoleUser,
		Content:   "hello",
		Timestamp: now.Add(time.Second),
	}); err != nil {
		t.Fatalf("AppendTurn() error = %v", err)
	}

	turn := sess.Messages[0]
	if turn.ID == "" {
		t.Fatal("expected turn id assigned")
	}
	if turn.Products == nil || turn.WorkflowSteps == nil {
		t.Fatal("expected non-nil slices on appended turn")
	}
	if !turn.Timestamp.Equal(now.Add(time.Second)) {
		t.Fatalf("unexpected timestamp: %v", turn.Timestamp)
	}
}

func TestAppendTurnRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	sess := New("s1", time.Now())
	err := sess.AppendTurn(Turn{Role: "system", Content: "x"})
	if !errors.Is(err, ErrInvalidTurn) {
		t.Fatalf("expected ErrInvalidTurn, got %v", err)
	}
	if len(sess.Messages) != 0 {
		t.Fatalf("rejected turn must not be stored, got %d messages", len(sess.Messages))
	}
}

func TestAppendAssistantTurnUpdatesAgentType(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := New("s1", now)

	if err := sess.AppendTurn(Turn{
		Role:      RoleAssistant,
		Content:   "reply",
		Timestamp: now.Add(time.Second),
		AgentType: string(contractx.AgentTypeMedical),
	}); err != nil {
		t.Fatalf("AppendTurn() error = %v", err)
	}

	if sess.AgentType != string(contractx.AgentTypeMedical) {
		t.Fatalf("expected session agent type medical, got %q", sess.AgentType)
	}
	if !sess.LastUpdated.Equal(now.Add(time.Second)) {
		t.Fatalf("expected LastUpdated bumped, got %v", sess.LastUpdated)
	}
}

func TestTouchNeverMovesBackward(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := New("s1", now)

	sess.Touch(now.Add(time.Minute))
	sess.Touch(now.Add(-time.Hour))
	if !sess.LastUpdated.Equal(now.Add(time.Minute)) {
		t.Fatalf("LastUpdated moved backward: %v", sess.LastUpdated)
	}
}

func TestRecentTurnsChronological(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := New("s1", now)
	contents := []string{"one", "two", "three", "four", "five"}
	for i, c := range contents {
		if err := sess.AppendTurn(Turn{
			Role:      RoleUser,
			Content:   c,
			Timestamp: now.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("AppendTurn() error = %v", err)
		}
	}

	recent := sess.RecentTurns(3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(recent))
	}
	if recent[0].Content != "three" || recent[2].Content != "five" {
		t.Fatalf("unexpected window: %q..%q", recent[0].Content, recent[2].Content)
	}

	if got := sess.RecentTurns(10); len(got) != 5 {
		t.Fatalf("window larger than history returns everything, got %d", len(got))
	}
	if got := sess.RecentTurns(0); got != nil {
		t.Fatalf("k<=0 returns nil, got %v", got)
	}
}

func TestMergeUserContextLastWriteWins(t *testing.T) {
	t.Parallel()

	sess := New("s1", time.Now())
	sess.MergeUserContext(map[string]any{"budget": 100, "category": "walker"})
	sess.MergeUserContext(map[string]any{"budget": 250})

	if sess.UserContext["budget"] != 250 {
		t.Fatalf("expected budget 250, got %v", sess.UserContext["budget"])
	}
	if sess.UserContext["category"] != "walker" {
		t.Fatalf("expected category preserved, got %v", sess.UserContext["category"])
	}

	// nil patch is a no-op, including on a nil context map.
	sess.UserContext = nil
	sess.MergeUserContext(nil)
	if sess.UserContext != nil {
		t.Fatal("empty patch must not allocate the map")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sess := New("s1", now)
	if err := sess.Validate(); err != nil {
		t.Fatalf("fresh session must validate, got %v", err)
	}

	sess.LastUpdated = now.Add(-time.Hour)
	if err := sess.Validate(); !errors.Is(err, ErrTimestampsSkewed) {
		t.Fatalf("expected ErrTimestampsSkewed, got %v", err)
	}

	var nilSession *Session
	if err := nilSession.Validate(); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}

	empty := New("", now)
	if err := empty.Validate(); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
