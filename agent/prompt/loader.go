package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/sales.txt
	salesRaw string

	//go:embed template/medical.txt
	medicalRaw string

	//go:embed template/evaluator.txt
	evaluatorRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Sales     string
	Medical   string
	Evaluator string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Sales:     strings.TrimSpace(salesRaw),
		Medical:   strings.TrimSpace(medicalRaw),
		Evaluator: strings.TrimSpace(evaluatorRaw),
	}
}
