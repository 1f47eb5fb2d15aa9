package responder

import (
	"strings"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

const salesFallbackReply = "I'm sorry, something went wrong on my side. " +
	"Could you tell me again what product you are looking for?"

func salesProfile(systemPrompt string) variantProfile {
	return variantProfile{
		agentType:        contractx.AgentTypeSales,
		systemPrompt:     systemPrompt,
		fallbackReply:    salesFallbackReply,
		conversationStep: StepSalesConversation,
		searchSteps:      []string{StepProductSearch, StepProductRecommend},
		extractContext:   extractSalesContext,
	}
}

// extractSalesContext pulls commercial facts out of the raw query. The
// model's own context_patch wins when both mention the same key.
func extractSalesContext(query string) map[string]any {
	q := strings.ToLower(query)
	updates := make(map[string]any, 4)

	switch {
	case strings.Contains(q, "wheelchair"):
		updates["product_category"] = "wheelchair"
	case strings.Contains(q, "walker"):
		updates["product_category"] = "walker"
	case strings.Contains(q, "crutch"):
		updates["product_category"] = "crutches"
	case strings.Contains(q, "brace"):
		updates["product_category"] = "brace"
	case strings.Contains(q, "nebulizer"):
		updates["product_category"] = "nebulizer"
	case strings.Contains(q, "air conditioner"):
		updates["product_category"] = "air conditioner"
	case strings.Contains(q, "refrigerator"):
		updates["product_category"] = "refrigerator"
	}

	switch {
	case containsAnyWord(q, "cheapest", "cheap", "affordable", "budget"):
		updates["price_sensitivity"] = "high"
	case containsAnyWord(q, "premium", "best quality", "top of the line"):
		updates["price_sensitivity"] = "low"
	}

	if containsAnyWord(q, "urgent", "asap", "immediately", "today") {
		updates["timeline"] = "urgent"
	}

	if len(updates) == 0 {
		return nil
	}
	return updates
}

func containsAnyWord(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
