package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
	"github.com/briangreenhill/adaptivecoach/internal/generation"
)

const maxRecommendations = 4

var (
	stringList = &generation.Schema{Type: generation.TypeArray, Items: &generation.Schema{Type: generation.TypeString}}
	unitRange  = (&generation.Schema{Type: generation.TypeNumber}).Range(0, 1)
)

var responseSchema = &generation.Schema{
	Type: generation.TypeObject,
	Properties: map[string]*generation.Schema{
		"response":              {Type: generation.TypeString, Description: "The coaching reply shown to the athlete"},
		"confidence":            unitRange,
		"key_points":            stringList,
		"actionable_advice":     stringList,
		"motivational_elements": stringList,
		"technical_details":     {Type: generation.TypeString},
		"follow_up_questions":   stringList,
	},
	Required: []string{"response", "confidence", "key_points", "actionable_advice", "motivational_elements"},
}

func recommendationSchema() *generation.Schema {
	maxItems := int64(maxRecommendations)
	return &generation.Schema{
		Type: generation.TypeObject,
		Properties: map[string]*generation.Schema{
			"recommendations": {
				Type:     generation.TypeArray,
				MaxItems: &maxItems,
				Items: &generation.Schema{
					Type: generation.TypeObject,
					Properties: map[string]*generation.Schema{
						"type": {Type: generation.TypeString, Enum: []string{
							string(domain.RecommendationWorkout), string(domain.RecommendationRecovery),
							string(domain.RecommendationNutrition), string(domain.RecommendationMotivation),
						}},
						"title":        {Type: generation.TypeString},
						"description":  {Type: generation.TypeString},
						"confidence":   unitRange,
						"reasoning":    {Type: generation.TypeString},
						"action_steps": stringList,
						"priority": {Type: generation.TypeString, Enum: []string{
							string(domain.PriorityLow), string(domain.PriorityMedium), string(domain.PriorityHigh),
						}},
					},
					Required: []string{"type", "title", "description", "confidence", "reasoning", "action_steps", "priority"},
				},
			},
			"contextual_insights": {
				Type: generation.TypeObject,
				Properties: map[string]*generation.Schema{
					"primary_factors": stringList,
					"risk_factors":    stringList,
					"opportunities":   stringList,
				},
				Required: []string{"primary_factors"},
			},
		},
		Required: []string{"recommendations", "contextual_insights"},
	}
}

type responseOutput struct {
	Response             string   `json:"response"`
	Confidence           *float64 `json:"confidence"`
	KeyPoints            []string `json:"key_points"`
	ActionableAdvice     []string `json:"actionable_advice"`
	MotivationalElements []string `json:"motivational_elements"`
	TechnicalDetails     string   `json:"technical_details,omitempty"`
	FollowUpQuestions    []string `json:"follow_up_questions,omitempty"`
}

func parseResponseOutput(raw json.RawMessage) (*responseOutput, error) {
	var out responseOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return nil, fmt.Errorf("%w: empty response text", ErrInvalidOutput)
	}
	if out.Confidence == nil {
		return nil, fmt.Errorf("%w: missing confidence", ErrInvalidOutput)
	}
	if c := *out.Confidence; c < 0 || c > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidOutput, c)
	}
	out.KeyPoints = nonEmpty(out.KeyPoints)
	out.ActionableAdvice = nonEmpty(out.ActionableAdvice)
	return &out, nil
}

type recommendationOutput struct {
	Recommendations    []recommendationItem `json:"recommendations"`
	ContextualInsights struct {
		PrimaryFactors []string `json:"primary_factors"`
		RiskFactors    []string `json:"risk_factors,omitempty"`
		Opportunities  []string `json:"opportunities,omitempty"`
	} `json:"contextual_insights"`
}

type recommendationItem struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Confidence  *float64 `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	ActionSteps []string `json:"action_steps"`
	Priority    string   `json:"priority"`
}

func (it recommendationItem) validate() error {
	if !domain.RecommendationType(it.Type).Valid() {
		return fmt.Errorf("unknown type %q", it.Type)
	}
	if !domain.Priority(it.Priority).Valid() {
		return fmt.Errorf("unknown priority %q", it.Priority)
	}
	if it.Confidence == nil || *it.Confidence < 0 || *it.Confidence > 1 {
		return fmt.Errorf("confidence missing or outside [0,1]")
	}
	if strings.TrimSpace(it.Title) == "" {
		return fmt.Errorf("empty title")
	}
	return nil
}

func parseRecommendationOutput(raw json.RawMessage) (*recommendationOutput, error) {
	var out recommendationOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return &out, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
