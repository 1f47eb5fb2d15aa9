package responder

import (
	"strings"

	contractx "github.com/alessalabs/medassist/agent/contract"
)

// MedicalDisclaimer is appended to every medical reply that does not
// already carry it. This is a post-condition of the variant, not a
// courtesy of the model.
const MedicalDisclaimer = "Please note: this guidance does not replace professional medical care. " +
	"Consult a healthcare professional for a proper diagnosis."

const medicalFallbackReply = "I'm sorry, I ran into a problem while handling your question. " +
	"If your symptoms are severe or worsening, please seek professional medical attention. " +
	MedicalDisclaimer

func medicalProfile(systemPrompt string) variantProfile {
	return variantProfile{
		agentType:        contractx.AgentTypeMedical,
		systemPrompt:     systemPrompt,
		fallbackReply:    medicalFallbackReply,
		conversationStep: StepMedicalConversation,
		searchSteps:      []string{StepSymptomAnalysis, StepProductRecommend},
		extractContext:   extractMedicalContext,
		finalizeReply:    ensureMedicalDisclaimer,
	}
}

func ensureMedicalDisclaimer(reply string) string {
	if strings.Contains(reply, "does not replace professional medical care") {
		return reply
	}
	return strings.TrimSpace(reply) + "\n\n" + MedicalDisclaimer
}

// extractMedicalContext mirrors the symptom keyword extraction the
// medical variant applies after every turn.
func extractMedicalContext(query string) map[string]any {
	q := strings.ToLower(query)
	updates := make(map[string]any, 4)

	switch {
	case containsAnyWord(q, "wrist", "hand", "arm"):
		updates["current_symptoms"] = "wrist/hand/arm issues"
	case containsAnyWord(q, "ankle", "foot"):
		updates["current_symptoms"] = "ankle/foot/leg issues"
	case containsAnyWord(q, "knee"):
		updates["current_symptoms"] = "knee issues"
	case containsAnyWord(q, "back", "spine"):
		updates["current_symptoms"] = "back issues"
	case containsAnyWord(q, "neck", "cervical"):
		updates["current_symptoms"] = "neck issues"
	case containsAnyWord(q, "headache", "migraine"):
		updates["current_symptoms"] = "headache"
	case containsAnyWord(q, "breathing", "asthma", "cough"):
		updates["current_symptoms"] = "respiratory issues"
	case containsAnyWord(q, "chest pain"):
		updates["current_symptoms"] = "chest pain"
	}

	switch {
	case containsAnyWord(q, "severe", "terrible", "awful", "excruciating"):
		updates["symptom_severity"] = "severe"
	case containsAnyWord(q, "moderate", "medium"):
		updates["symptom_severity"] = "moderate"
	case containsAnyWord(q, "mild", "slight", "little"):
		updates["symptom_severity"] = "mild"
	}

	switch {
	case containsAnyWord(q, "days", "weeks", "months", "years"):
		updates["symptom_duration"] = "ongoing"
	case containsAnyWord(q, "just now", "recently", "today", "yesterday"):
		updates["symptom_duration"] = "recent"
	}

	if len(updates) == 0 {
		return nil
	}
	return updates
}
