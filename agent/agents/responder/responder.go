package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/alessalabs/medassist/agent/contract"
	dedupex "github.com/alessalabs/medassist/agent/dedupe"
	toolx "github.com/alessalabs/medassist/agent/tool"
)

const (
	// Workflow step labels recorded on every assistant turn.
	StepSalesConversation    = "sales_conversation"
	StepMedicalConversation  = "medical_conversation"
	StepSymptomAnalysis      = "symptom_analysis"
	StepProductSearch        = "product_search"
	StepProductRecommend     = "product_recommendation"
	StepProductSearchFailed  = "product_search_failed"
	StepErrorFallback        = "error_fallback"
	maxProductsPerTurn       = 5
	modelInvokeRetryAttempts = 1
)

// variantProfile is the override surface that distinguishes agent
// variants. Everything else is shared base behavior.
type variantProfile struct {
	agentType     contractx.AgentType
	systemPrompt  string
	fallbackReply string

	// conversationStep labels turns that produced no tool calls.
	conversationStep string

	// searchSteps label turns where the domain tools ran.
	searchSteps []string

	// extractContext derives user-context facts from the raw query; its
	// results merge under any patch the model emitted (last write wins).
	extractContext func(query string) map[string]any

	// finalizeReply enforces variant post-conditions on the outgoing
	// message (the medical variant appends the safety disclaimer).
	finalizeReply func(reply string) string
}

type responderLLMOutput struct {
	Message      string         `json:"message"`
	ContextPatch map[string]any `json:"context_patch,omitempty"`
}

type responderImpl struct {
	profile variantProfile

	structuredRunner compose.Runnable[map[string]any, responderLLMOutput]
	toolRunner       compose.Runnable[map[string]any, *schema.Message]
	executor         toolx.Executor
	allowedTools     map[string]struct{}
}

func newResponder(
	ctx context.Context,
	profile variantProfile,
	chatModel einomodel.ToolCallingChatModel,
	searcher contractx.ProductSearcher,
) (*responderImpl, error) {
	structuredRunner, err := compileStructuredLLMGraph[responderLLMOutput](
		ctx, chatModel, profile.systemPrompt,
		fmt.Sprintf("%s.structured_graph", profile.agentType),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: compile structured graph for agent=%s: %v", contractx.ErrModelInvoke, profile.agentType, err)
	}

	tools, executor := toolx.BuildForAgent(profile.agentType, searcher)
	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, profile.agentType, err)
	}
	toolRunner, err := compileToolPlanningGraph(
		ctx, toolModel, profile.systemPrompt,
		fmt.Sprintf("%s.tool_planning_graph", profile.agentType),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: compile tool planner for agent=%s: %v", contractx.ErrModelInvoke, profile.agentType, err)
	}

	allowedTools := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowedTools[t.Name] = struct{}{}
	}

	return &responderImpl{
		profile:          profile,
		structuredRunner: structuredRunner,
		toolRunner:       toolRunner,
		executor:         executor,
		allowedTools:     allowedTools,
	}, nil
}

func (r *responderImpl) FallbackReply() string {
	return r.profile.fallbackReply
}

// Respond runs the shared turn algorithm: plan tool calls, execute them
// (results deduplicated), then produce the structured final reply.
func (r *responderImpl) Respond(ctx context.Context, req contractx.ResponderRequest) (contractx.ResponderResponse, error) {
	workflowSteps := make([]string, 0, 4)
	var products []contractx.Product
	var toolResults []contractx.ToolResult

	msg, err := r.planTools(ctx, req)
	if err != nil {
		return contractx.ResponderResponse{}, err
	}

	toolRequests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.ResponderResponse{}, err
	}

	if len(toolRequests) > 0 {
		workflowSteps = append(workflowSteps, r.profile.searchSteps...)
		for _, tr := range toolRequests {
			if _, ok := r.allowedTools[tr.Tool]; !ok {
				return contractx.ResponderResponse{}, fmt.Errorf("%w: tool=%s is not allowed for agent=%s",
					contractx.ErrSchemaViolation, tr.Tool, r.profile.agentType)
			}
			result, execErr := r.executor(ctx, tr.Tool, tr.Args)
			if execErr != nil {
				result = contractx.ToolResult{Tool: tr.Tool, Error: execErr.Error()}
			}
			if result.Error != "" {
				// Recovered locally: continue with an empty result set so
				// the reply degrades gracefully.
				log.Warn().
					Str("agent_type", string(r.profile.agentType)).
					Str("tool", result.Tool).
					Str("error", result.Error).
					Msg("tool call failed")
				workflowSteps = appendUnique(workflowSteps, StepProductSearchFailed)
				result.Products = nil
			}
			products = append(products, result.Products...)
			toolResults = append(toolResults, result)
		}
		products = dedupex.ProductsLimit(products, maxProductsPerTurn)
	} else {
		workflowSteps = append(workflowSteps, r.profile.conversationStep)
	}

	out, err := r.finalize(ctx, req, toolResults)
	if err != nil {
		return contractx.ResponderResponse{}, err
	}

	message := strings.TrimSpace(out.Message)
	if message == "" {
		// The planner is allowed to answer directly when no tools ran.
		message = strings.TrimSpace(msg.Content)
	}
	if message == "" {
		return contractx.ResponderResponse{}, fmt.Errorf("%w: agent message is empty", contractx.ErrSchemaViolation)
	}
	if r.profile.finalizeReply != nil {
		message = r.profile.finalizeReply(message)
	}

	contextPatch := r.profile.extractContext(req.Query)
	for k, v := range out.ContextPatch {
		if contextPatch == nil {
			contextPatch = make(map[string]any, len(out.ContextPatch))
		}
		contextPatch[k] = v
	}

	if products == nil {
		products = []contractx.Product{}
	}

	return contractx.ResponderResponse{
		Message:       message,
		Products:      products,
		WorkflowSteps: workflowSteps,
		ContextPatch:  contextPatch,
	}, nil
}

func (r *responderImpl) planTools(ctx context.Context, req contractx.ResponderRequest) (*schema.Message, error) {
	payload := map[string]any{
		"mode":         "plan",
		"query":        req.Query,
		"history":      req.History,
		"user_context": req.UserContext,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal planning payload: %v", contractx.ErrValidation, err)
	}

	msg, err := invokeWithRetry(ctx, r.toolRunner, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tool planning invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty tool planning response", contractx.ErrSchemaViolation)
	}
	return msg, nil
}

func (r *responderImpl) finalize(
	ctx context.Context,
	req contractx.ResponderRequest,
	toolResults []contractx.ToolResult,
) (responderLLMOutput, error) {
	payload := map[string]any{
		"mode":         "finalize",
		"query":        req.Query,
		"history":      req.History,
		"user_context": req.UserContext,
		"tool_results": toolResults,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return responderLLMOutput{}, fmt.Errorf("%w: marshal finalize payload: %v", contractx.ErrValidation, err)
	}

	out, err := invokeWithRetry(ctx, r.structuredRunner, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return responderLLMOutput{}, fmt.Errorf("%w: finalize invoke: %v", contractx.ErrModelInvoke, err)
	}
	return out, nil
}

// invokeWithRetry retries a model invocation at most once; the capability
// being unreachable is surfaced after that, never retried indefinitely.
func invokeWithRetry[I, O any](ctx context.Context, runner compose.Runnable[I, O], in I) (O, error) {
	out, err := runner.Invoke(ctx, in)
	if err == nil {
		return out, nil
	}
	for attempt := 0; attempt < modelInvokeRetryAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}
		out, err = runner.Invoke(ctx, in)
		if err == nil {
			return out, nil
		}
	}
	var zero O
	return zero, err
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{
			Tool: tool,
			Args: args,
		})
	}
	return reqs, nil
}

func appendUnique(steps []string, step string) []string {
	for _, s := range steps {
		if s == step {
			return steps
		}
	}
	return append(steps, step)
}
