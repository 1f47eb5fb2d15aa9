// Package evaluator scores a produced reply against the query and context.
// It is invoked post-hoc and only on request; it is not on the default hot
// path since it doubles the cost of a turn.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

const maxProductsInContext = 10

// Service implements contract.Evaluator. Failures never escape its
// boundary; they degrade into the result itself.
type Service struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.Evaluator = (*Service)(nil)

func New(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Service, error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add evaluator prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add evaluator model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add evaluator edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add evaluator edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add evaluator edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("evaluator.score_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile evaluator graph: %w", err)
	}

	return &Service{runner: runner}, nil
}

func (s *Service) Evaluate(
	ctx context.Context,
	query string,
	reply string,
	products []contractx.Product,
	routedAgent contractx.AgentType,
) contractx.EvaluationResult {
	payload := buildEvaluationContext(query, reply, products, routedAgent)
	input, err := json.Marshal(payload)
	if err != nil {
		return failureResult(fmt.Sprintf("evaluator could not encode its input: %v", err))
	}

	msg, err := s.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		log.Warn().Err(err).Msg("evaluator model invoke failed")
		return failureResult(fmt.Sprintf("evaluator unavailable: %v", err))
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return failureResult("evaluator returned an empty response")
	}

	return ParseEvaluation(msg.Content)
}

func buildEvaluationContext(
	query string,
	reply string,
	products []contractx.Product,
	routedAgent contractx.AgentType,
) map[string]any {
	summary := make([]map[string]any, 0, len(products))
	for i, p := range products {
		if i >= maxProductsInContext {
			break
		}
		summary = append(summary, map[string]any{
			"name":     p.Name,
			"price":    p.Price,
			"currency": p.Currency,
		})
	}

	return map[string]any{
		"user_query":     query,
		"bot_reply":      reply,
		"agent_type":     string(routedAgent),
		"products":       summary,
		"products_total": len(products),
	}
}

// evalLLMOutput uses pointer fields so an absent dimension is
// distinguishable from an explicit zero.
type evalLLMOutput struct {
	OverallScore     *int     `json:"overall_score"`
	Relevance        *int     `json:"relevance"`
	Accuracy         *int     `json:"accuracy"`
	Completeness     *int     `json:"completeness"`
	ProductRelevance *int     `json:"product_relevance"`
	AgentRouting     *int     `json:"agent_routing"`
	CriticalIssues   []string `json:"critical_issues"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	Summary          string   `json:"summary"`
}

// ParseEvaluation turns raw evaluator output into an EvaluationResult.
// Malformed output degrades to a heuristic score extraction with unknown
// dimensions; it never fails.
func ParseEvaluation(raw string) contractx.EvaluationResult {
	var out evalLLMOutput
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &out); err != nil {
		return heuristicResult(raw)
	}

	result := contractx.EvaluationResult{
		OverallScore:     clampScore(out.OverallScore),
		Relevance:        clampScore(out.Relevance),
		Accuracy:         clampScore(out.Accuracy),
		Completeness:     clampScore(out.Completeness),
		ProductRelevance: clampScore(out.ProductRelevance),
		AgentRouting:     clampScore(out.AgentRouting),
		CriticalIssues:   emptyIfNil(out.CriticalIssues),
		Strengths:        emptyIfNil(out.Strengths),
		Improvements:     out.Improvements,
		Summary:          strings.TrimSpace(out.Summary),
	}

	if result.OverallScore == contractx.ScoreUnknown {
		result.OverallScore = averageKnown(
			result.Relevance,
			result.Accuracy,
			result.Completeness,
			result.ProductRelevance,
			result.AgentRouting,
		)
	}
	return result
}

var overallScorePattern = regexp.MustCompile(`(?i)overall[^0-9]{0,24}(\d{1,3})`)

func heuristicResult(raw string) contractx.EvaluationResult {
	overall := 0
	if m := overallScorePattern.FindStringSubmatch(raw); len(m) == 2 {
		if v, err := strconv.Atoi(m[1]); err == nil && v >= 0 && v <= 100 {
			overall = v
		}
	}

	return contractx.EvaluationResult{
		OverallScore:     overall,
		Relevance:        contractx.ScoreUnknown,
		Accuracy:         contractx.ScoreUnknown,
		Completeness:     contractx.ScoreUnknown,
		ProductRelevance: contractx.ScoreUnknown,
		AgentRouting:     contractx.ScoreUnknown,
		CriticalIssues:   []string{"evaluator output could not be parsed; dimension scores are unknown"},
		Strengths:        []string{},
		Summary:          "Evaluation parsing failed, manual review needed",
	}
}

func failureResult(issue string) contractx.EvaluationResult {
	return contractx.EvaluationResult{
		OverallScore:     0,
		Relevance:        contractx.ScoreUnknown,
		Accuracy:         contractx.ScoreUnknown,
		Completeness:     contractx.ScoreUnknown,
		ProductRelevance: contractx.ScoreUnknown,
		AgentRouting:     contractx.ScoreUnknown,
		CriticalIssues:   []string{issue},
		Strengths:        []string{},
		Summary:          "Evaluation failed; this result is low confidence",
	}
}

// extractJSONObject strips code fences and surrounding prose, keeping the
// outermost JSON object.
func extractJSONObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}

func clampScore(v *int) int {
	if v == nil {
		return contractx.ScoreUnknown
	}
	if *v < 0 {
		return 0
	}
	if *v > 100 {
		return 100
	}
	return *v
}

func averageKnown(scores ...int) int {
	sum, n := 0, 0
	for _, s := range scores {
		if s == contractx.ScoreUnknown {
			continue
		}
		sum += s
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
