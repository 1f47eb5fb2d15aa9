package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/alessalabs/medassist/agent/contract"
	openrouterx "github.com/alessalabs/medassist/pkg/openrouter"
)

// KindEvaluator selects the evaluator model; it is not an agent variant.
const KindEvaluator = "evaluator"

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	SalesModel           string  `envconfig:"SALES_MODEL" split_words:"true"`
	MedicalModel         string  `envconfig:"MEDICAL_MODEL" split_words:"true"`
	EvaluatorModel       string  `envconfig:"EVALUATOR_MODEL" split_words:"true"`
	SalesTemperature     float32 `envconfig:"SALES_TEMPERATURE" split_words:"true" default:"-1"`
	MedicalTemperature   float32 `envconfig:"MEDICAL_TEMPERATURE" split_words:"true" default:"-1"`
	EvaluatorTemperature float32 `envconfig:"EVALUATOR_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor returns the model config for one agent kind, applying the
// per-kind model and temperature overrides when set.
func (c Config) OpenRouterFor(kind string) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch kind {
	case string(contractx.AgentTypeSales):
		if v := strings.TrimSpace(c.SalesModel); v != "" {
			modelName = v
		}
		if c.SalesTemperature >= 0 {
			temp = c.SalesTemperature
		}
	case string(contractx.AgentTypeMedical):
		if v := strings.TrimSpace(c.MedicalModel); v != "" {
			modelName = v
		}
		if c.MedicalTemperature >= 0 {
			temp = c.MedicalTemperature
		}
	case KindEvaluator:
		if v := strings.TrimSpace(c.EvaluatorModel); v != "" {
			modelName = v
		}
		if c.EvaluatorTemperature >= 0 {
			temp = c.EvaluatorTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
