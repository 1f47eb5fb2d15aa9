package router

import (
	"testing"
	"time"

	contractx "github.com/alessalabs/medassist/agent/contract"
	sessionx "github.com/alessalabs/medassist/agent/session"
)

func TestRoutePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  contractx.AgentType
	}{
		{name: "empty query", query: "", want: contractx.AgentTypeSales},
		{name: "whitespace only", query: "   ", want: contractx.AgentTypeSales},
		{name: "plain sales", query: "I want to buy a wheelchair", want: contractx.AgentTypeSales},
		{name: "plain medical", query: "I have a headache", want: contractx.AgentTypeMedical},
		{name: "emergency", query: "my father is having a heart attack", want: contractx.AgentTypeMedical},
		{name: "emergency beats sales intent", query: "I have chest pain and want a wheelchair", want: contractx.AgentTypeMedical},
		{name: "medical beats sales intent", query: "my knee hurts, do you have a brace", want: contractx.AgentTypeMedical},
		{name: "case insensitive", query: "SHOW ME WALKERS", want: contractx.AgentTypeSales},
		{name: "small talk falls back to sales", query: "hello there", want: contractx.AgentTypeSales},
		{name: "price question", query: "how much is the nebulizer", want: contractx.AgentTypeSales},
		{name: "symptom description", query: "persistent cough and fever since monday", want: contractx.AgentTypeMedical},
		{name: "suicidal ideation", query: "I'm having suicidal thoughts", want: contractx.AgentTypeMedical},
		{name: "appliance query", query: "looking for an air conditioner", want: contractx.AgentTypeSales},
		{name: "derived symptom form", query: "my shoulder is painful when I lift", want: contractx.AgentTypeMedical},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Route(tt.query, nil)
			if got != tt.want {
				t.Fatalf("Route(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestRouteKeywordsMatchWholeWordsOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  contractx.AgentType
	}{
		// "paint" must not fire the "pain" keyword.
		{name: "paint is not pain", query: "what colors of paint do you have", want: contractx.AgentTypeSales},
		{name: "repaint is not pain", query: "I want to repaint my fence", want: contractx.AgentTypeSales},
		// "scolded" must not fire the "cold" keyword.
		{name: "scolded is not cold", query: "my brother scolded me yesterday", want: contractx.AgentTypeSales},
		// "embrace" must not fire the "brace" keyword; no keyword fires at all.
		{name: "embrace is not brace", query: "she gave me a warm embrace", want: contractx.AgentTypeSales},
		// Punctuation still counts as a boundary.
		{name: "keyword before comma", query: "it hurts, badly", want: contractx.AgentTypeMedical},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Route(tt.query, nil)
			if got != tt.want {
				t.Fatalf("Route(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestRouteIgnoresPreviousAgentType(t *testing.T) {
	t.Parallel()

	sess := sessionx.New("s1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	sess.AgentType = string(contractx.AgentTypeMedical)

	// Prior medical routing never pins a later sales query.
	if got := Route("show me walkers", sess); got != contractx.AgentTypeSales {
		t.Fatalf("Route() = %s, want sales", got)
	}
}

func TestRouteDeterministic(t *testing.T) {
	t.Parallel()

	const query = "I sprained my ankle and need a brace"
	first := Route(query, nil)
	for i := 0; i < 10; i++ {
		if got := Route(query, nil); got != first {
			t.Fatalf("Route() unstable: got %s then %s", first, got)
		}
	}
}
