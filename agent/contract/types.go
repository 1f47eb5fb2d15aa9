package contract

import "time"

type AgentType string

const (
	AgentTypeSales   AgentType = "sales"
	AgentTypeMedical AgentType = "medical"
)

// ScoreUnknown marks an evaluation dimension that could not be extracted
// from the evaluator output. It is distinct from zero so that a parsing
// failure never reads as "scored 0".
const ScoreUnknown = -1

// Product is a value object; instances are immutable once constructed.
// Name is the deduplication key after trimming and case-folding.
type Product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	URL      string  `json:"url"`
	Vendor   string  `json:"vendor"`
	Currency string  `json:"currency"`
}

// TurnRequest is the turn-handling entry point consumed by the HTTP layer.
type TurnRequest struct {
	Text             string `json:"text"`
	SessionID        string `json:"session_id"`
	EvaluateResponse bool   `json:"evaluate_response,omitempty"`
}

type TurnResult struct {
	Reply         string            `json:"reply"`
	Products      []Product         `json:"products"`
	WorkflowSteps []string          `json:"workflow_steps"`
	AgentType     AgentType         `json:"agent_type"`
	Success       bool              `json:"success"`
	Evaluation    *EvaluationResult `json:"evaluation,omitempty"`
}

// ResponderRequest carries everything a variant needs for one turn.
// History is chronological and already bounded by the orchestrator.
type ResponderRequest struct {
	Query       string         `json:"query"`
	History     []HistoryEntry `json:"history,omitempty"`
	UserContext map[string]any `json:"user_context,omitempty"`
	Now         time.Time      `json:"now"`
}

type HistoryEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	AgentType string `json:"agent_type,omitempty"`
}

type ResponderResponse struct {
	Message       string    `json:"message"`
	Products      []Product `json:"products,omitempty"`
	WorkflowSteps []string  `json:"workflow_steps,omitempty"`

	// ContextPatch is merged into Session.UserContext last-write-wins.
	ContextPatch map[string]any `json:"context_patch,omitempty"`
}

type EvaluationResult struct {
	OverallScore     int      `json:"overall_score"`
	Relevance        int      `json:"relevance"`
	Accuracy         int      `json:"accuracy"`
	Completeness     int      `json:"completeness"`
	ProductRelevance int      `json:"product_relevance"`
	AgentRouting     int      `json:"agent_routing"`
	CriticalIssues   []string `json:"critical_issues"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements,omitempty"`
	Summary          string   `json:"summary"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool     string    `json:"tool"`
	Products []Product `json:"products,omitempty"`
	Error    string    `json:"error,omitempty"`
}
