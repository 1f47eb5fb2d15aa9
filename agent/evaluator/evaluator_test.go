package evaluator

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

type fakeChatModel struct {
	responses []*schema.Message
	err       error
	idx       int
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestEvaluateWellFormedOutput(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{
		responses: []*schema.Message{
			{
				Content: `{"overall_score":84,"relevance":90,"accuracy":85,"completeness":80,"product_relevance":75,"agent_routing":100,"critical_issues":[],"strengths":["clear answer"],"summary":"good reply"}`,
			},
		},
	}

	svc, err := New(context.Background(), fake, "evaluator prompt")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := svc.Evaluate(context.Background(), "where can I buy a cane", "Here are some canes.",
		[]contractx.Product{{Name: "Walking Cane", Price: 15}}, contractx.AgentTypeSales)

	if result.OverallScore != 84 {
		t.Fatalf("unexpected overall score: %d", result.OverallScore)
	}
	if result.Relevance != 90 || result.AgentRouting != 100 {
		t.Fatalf("unexpected dimensions: %+v", result)
	}
	if len(result.CriticalIssues) != 0 {
		t.Fatalf("unexpected critical issues: %v", result.CriticalIssues)
	}
	if result.Summary != "good reply" {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
}

func TestEvaluateModelFailureDegrades(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{err: errors.New("model unreachable")}
	svc, err := New(context.Background(), fake, "evaluator prompt")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := svc.Evaluate(context.Background(), "q", "r", nil, contractx.AgentTypeSales)

	if result.OverallScore != 0 {
		t.Fatalf("expected overall 0 on failure, got %d", result.OverallScore)
	}
	if result.Relevance != contractx.ScoreUnknown {
		t.Fatalf("expected unknown dimension, got %d", result.Relevance)
	}
	if len(result.CriticalIssues) == 0 {
		t.Fatal("expected a critical issue naming the failure")
	}
}

func TestParseEvaluationFencedJSON(t *testing.T) {
	t.Parallel()

	raw := "Here is my assessment:\n```json\n{\"overall_score\":70,\"relevance\":70,\"summary\":\"ok\"}\n```"
	result := ParseEvaluation(raw)
	if result.OverallScore != 70 {
		t.Fatalf("unexpected overall score: %d", result.OverallScore)
	}
	if result.Accuracy != contractx.ScoreUnknown {
		t.Fatalf("absent dimension must be unknown, got %d", result.Accuracy)
	}
}

func TestParseEvaluationClampsScores(t *testing.T) {
	t.Parallel()

	result := ParseEvaluation(`{"overall_score":250,"relevance":-10}`)
	if result.OverallScore != 100 {
		t.Fatalf("expected clamp to 100, got %d", result.OverallScore)
	}
	if result.Relevance != 0 {
		t.Fatalf("expected clamp to 0, got %d", result.Relevance)
	}
}

func TestParseEvaluationMissingOverallAveragesKnown(t *testing.T) {
	t.Parallel()

	result := ParseEvaluation(`{"relevance":80,"accuracy":60}`)
	if result.OverallScore != 70 {
		t.Fatalf("expected average of known dims, got %d", result.OverallScore)
	}
}

func TestParseEvaluationMalformedFallsBackToHeuristic(t *testing.T) {
	t.Parallel()

	result := ParseEvaluation("The overall score is 65 out of 100, a decent reply.")
	if result.OverallScore != 65 {
		t.Fatalf("expected heuristic extraction of 65, got %d", result.OverallScore)
	}
	if result.Relevance != contractx.ScoreUnknown {
		t.Fatalf("heuristic dims must be unknown, got %d", result.Relevance)
	}
	if len(result.CriticalIssues) == 0 {
		t.Fatal("heuristic result must flag the parse failure")
	}

	// Nothing extractable at all.
	result = ParseEvaluation("no numbers here")
	if result.OverallScore != 0 {
		t.Fatalf("expected 0 with no extractable score, got %d", result.OverallScore)
	}
}

func TestParseEvaluationEmptyObject(t *testing.T) {
	t.Parallel()

	result := ParseEvaluation(`{}`)
	if result.OverallScore != 0 {
		t.Fatalf("all-unknown dims average to 0, got %d", result.OverallScore)
	}
	if result.CriticalIssues == nil || result.Strengths == nil {
		t.Fatal("expected non-nil issue slices")
	}
}
