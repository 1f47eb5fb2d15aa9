// Package router classifies an incoming query into the agent variant that
// should handle it. It is a deterministic rule list, not a learned
// classifier; the priority order (emergency > medical > sales > fallback)
// is a safety guarantee and must survive any future replacement.
package router

import (
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/alessalabs/medassist/agent/contract"
	sessionx "github.com/alessalabs/medassist/agent/session"
)

// Emergency vocabulary is checked before everything else, including
// explicit sales intent. False negatives here are the costliest failure.
var emergencyKeywords = []string{
	"chest pain",
	"difficulty breathing",
	"can't breathe",
	"cannot breathe",
	"severe bleeding",
	"heart attack",
	"stroke",
	"unconscious",
	"seizure",
	"choking",
	"overdose",
	"suicide",
	"suicidal",
}

var medicalKeywords = []string{
	"pain",
	"pains",
	"painful",
	"ache",
	"aches",
	"aching",
	"hurt",
	"hurts",
	"hurting",
	"sore",
	"injury",
	"injured",
	"injuries",
	"sprain",
	"sprained",
	"strain",
	"strained",
	"swelling",
	"swollen",
	"symptom",
	"symptoms",
	"fever",
	"cough",
	"coughing",
	"cold",
	"flu",
	"headache",
	"headaches",
	"migraine",
	"migraines",
	"dizzy",
	"dizziness",
	"nausea",
	"nauseous",
	"wound",
	"wounds",
	"fracture",
	"fractured",
	"arthritis",
	"diabetes",
	"asthma",
	"blood pressure",
	"blood sugar",
	"breathing",
	"medical advice",
	"doctor",
	"treat",
	"treatment",
	"i fell",
	"what should i do for",
}

var salesKeywords = []string{
	"buy",
	"buying",
	"purchase",
	"price",
	"prices",
	"pricing",
	"cost",
	"costs",
	"how much",
	"cheap",
	"cheapest",
	"expensive",
	"discount",
	"show me",
	"looking for",
	"do you have",
	"in stock",
	"available",
	"catalog",
	"brand",
	"brands",
	"model",
	"models",
	"product",
	"products",
	"order",
	"recommend",
	"wheelchair",
	"wheelchairs",
	"walker",
	"walkers",
	"crutch",
	"crutches",
	"cane",
	"canes",
	"brace",
	"braces",
	"nebulizer",
	"thermometer",
	"monitor",
	"monitors",
	"air conditioner",
	"refrigerator",
	"washing machine",
}

// Route picks the agent variant for one query. Deterministic given
// identical inputs; sess is informational only (each turn is re-routed
// independently, the prior agent type is never binding).
func Route(query string, sess *sessionx.Session) contractx.AgentType {
	q := strings.ToLower(strings.TrimSpace(query))

	agentType, rule := classify(q)

	evt := log.Debug().
		Str("rule", rule).
		Str("agent_type", string(agentType))
	if sess != nil && sess.AgentType != "" {
		evt = evt.Str("previous_agent_type", sess.AgentType)
	}
	evt.Msg("routed query")

	return agentType
}

func classify(q string) (contractx.AgentType, string) {
	if q == "" {
		return contractx.AgentTypeSales, "fallback_empty"
	}
	if containsAny(q, emergencyKeywords) {
		return contractx.AgentTypeMedical, "emergency"
	}
	if containsAny(q, medicalKeywords) {
		return contractx.AgentTypeMedical, "medical_intent"
	}
	if containsAny(q, salesKeywords) {
		return contractx.AgentTypeSales, "sales_intent"
	}
	// Ambiguous and small-talk queries go to the commercial agent rather
	// than erroring.
	return contractx.AgentTypeSales, "fallback"
}

// Multi-word keywords match as substrings; single words match at word
// boundaries so that "pain" never fires inside "paint" or "repaint".
func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(q, kw) {
				return true
			}
			continue
		}
		if containsWord(q, kw) {
			return true
		}
	}
	return false
}

func containsWord(q, kw string) bool {
	for pos := 0; ; {
		i := strings.Index(q[pos:], kw)
		if i < 0 {
			return false
		}
		start := pos + i
		end := start + len(kw)
		if (start == 0 || !isWordByte(q[start-1])) &&
			(end == len(q) || !isWordByte(q[end])) {
			return true
		}
		pos = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
