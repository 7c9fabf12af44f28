package prompt

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

const expertCoach = `You are an experienced and knowledgeable endurance running coach. Base recommendations on exercise science and proven training principles, favour gradual and sustainable progress, and always put injury prevention and long-term health first.`

const responseRules = `## Response Rules
- Answer the athlete's question directly, then give specific, actionable advice.
- Be realistic about the athlete's current fitness, time constraints and goals.
- Never diagnose injuries; recommend a professional when pain is mentioned.`

// Adapter turns a query, an optional profile and the call context into the
// prompt sent to the generation model.
type Adapter struct {
	knowledge string
}

// NewAdapter creates an Adapter that injects kb into every prompt.
func NewAdapter(kb *KnowledgeBase) *Adapter {
	return &Adapter{knowledge: kb.Text()}
}

// Adapt builds the prompt for a chat turn. A nil profile produces the generic
// cold-start prompt.
func (a *Adapter) Adapt(query string, p *domain.Profile, uc domain.UserContext) string {
	if p == nil {
		return a.generic(query)
	}

	var b strings.Builder
	b.WriteString(expertCoach)
	b.WriteString("\n\n")
	b.WriteString(a.knowledge)

	b.WriteString("\n## Athlete Communication Style\n")
	cs := p.CommunicationStyle
	fmt.Fprintf(&b, "- Motivation level: %s\n", cs.MotivationLevel)
	fmt.Fprintf(&b, "- Detail preference: %s\n", cs.DetailPreference)
	fmt.Fprintf(&b, "- Personality type: %s\n", cs.PersonalityType)
	fmt.Fprintf(&b, "- Preferred tone: %s\n", cs.PreferredTone)

	b.WriteString("\n## Behavioral Patterns\n")
	b.WriteString(BehaviorSummary(p))

	if fields := contextLines(uc); len(fields) > 0 {
		b.WriteString("\n## Current Context\n")
		for _, f := range fields {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}

	if g := Guidelines(p, uc); len(g) > 0 {
		b.WriteString("\n## Adaptation Guidelines\n")
		for _, line := range g {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(responseRules)
	fmt.Fprintf(&b, "\n\n## Athlete Question\n%s\n", query)
	return b.String()
}

func (a *Adapter) generic(query string) string {
	var b strings.Builder
	b.WriteString(expertCoach)
	b.WriteString("\n\n")
	b.WriteString(a.knowledge)
	b.WriteString("\n")
	b.WriteString(responseRules)
	fmt.Fprintf(&b, "\n\n## Athlete Question\n%s\n", query)
	return b.String()
}

// Guidelines derives the rule-based adaptation instructions for a profile and
// context. Rules are independent; any subset may apply.
func Guidelines(p *domain.Profile, uc domain.UserContext) []string {
	if p == nil {
		return nil
	}
	var out []string
	cs := p.CommunicationStyle

	switch cs.MotivationLevel {
	case domain.MotivationHigh:
		out = append(out, "Use an enthusiastic, energetic tone and exclamation points to match their high motivation!")
	case domain.MotivationLow:
		out = append(out, "Use a calm, measured tone; avoid hype and pressure.")
	}

	switch cs.DetailPreference {
	case domain.DetailDetailed:
		out = append(out, "Give a comprehensive, technical explanation including the physiology behind each recommendation.")
	case domain.DetailMinimal:
		out = append(out, "Keep the response concise: a few short sentences with only the essential action.")
	}

	switch cs.PersonalityType {
	case domain.PersonalityAnalytical:
		out = append(out, "Frame advice with data: paces, heart-rate zones, percentages and measurable targets.")
	case domain.PersonalityEncouraging:
		out = append(out, "Use positive reinforcement; acknowledge progress before suggesting changes.")
	}

	if p.BehavioralPatterns.ContextualPatterns.WeatherSensitivity > 7 && uc.IsRaining() {
		out = append(out, "It is raining and this athlete is weather sensitive: proactively suggest indoor alternatives such as a treadmill session or indoor cross-training.")
	}

	if uc.IsFatigued() && p.BehavioralPatterns.ContextualPatterns.StressResponse == domain.StressReduceIntensity {
		out = append(out, fmt.Sprintf("The athlete feels %s and responds to stress by reducing intensity: suggest lower-intensity options such as an easy run, a walk or a rest day.", strings.ToLower(uc.Mood)))
	}
	return out
}

// BehaviorSummary renders the workout and contextual patterns of a profile.
func BehaviorSummary(p *domain.Profile) string {
	wp := p.BehavioralPatterns.WorkoutPreferences
	cp := p.BehavioralPatterns.ContextualPatterns

	var b strings.Builder
	fmt.Fprintf(&b, "- Preferred days: %s\n", formatDays(wp.PreferredDays))
	fmt.Fprintf(&b, "- Workout affinities: %s\n", formatAffinities(wp.WorkoutTypeAffinities))
	fmt.Fprintf(&b, "- Difficulty preference: %d/10\n", wp.DifficultyPreference)
	fmt.Fprintf(&b, "- Weather sensitivity: %d/10\n", cp.WeatherSensitivity)
	fmt.Fprintf(&b, "- Stress response: %s\n", orNone(string(cp.StressResponse)))
	return b.String()
}

func contextLines(uc domain.UserContext) []string {
	var out []string
	if len(uc.CurrentGoals) > 0 {
		out = append(out, "Goals: "+strings.Join(uc.CurrentGoals, ", "))
	}
	if uc.RecentActivity != "" {
		out = append(out, "Recent activity: "+uc.RecentActivity)
	}
	if uc.Mood != "" {
		out = append(out, "Mood: "+uc.Mood)
	}
	if uc.Environment != "" {
		out = append(out, "Environment: "+uc.Environment)
	}
	if uc.Weather != nil && uc.Weather.Condition != "" {
		out = append(out, "Weather: "+uc.Weather.String())
	}
	if uc.Schedule != nil && uc.Schedule.Flexibility != "" {
		out = append(out, "Schedule flexibility: "+uc.Schedule.Flexibility)
	}
	return out
}

func formatDays(days []time.Weekday) string {
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

// formatAffinities renders "type (score%)" entries sorted by workout type.
func formatAffinities(aff map[string]int) string {
	if len(aff) == 0 {
		return "none"
	}
	types := make([]string, 0, len(aff))
	for t := range aff {
		types = append(types, t)
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%s (%d%%)", t, aff[t])
	}
	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
