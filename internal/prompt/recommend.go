package prompt

import (
	"fmt"
	"strings"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

// Recommendations builds the prompt for a batch of adaptive recommendations.
func (a *Adapter) Recommendations(p *domain.Profile, patterns []domain.BehaviorPattern, feedback []domain.Feedback, uc domain.UserContext) string {
	var b strings.Builder
	b.WriteString(expertCoach)
	b.WriteString("\n\n")
	b.WriteString(a.knowledge)

	b.WriteString("\n## Athlete Profile\n")
	if p == nil {
		b.WriteString("- No profile yet; assume a recreational runner.\n")
	} else {
		cs := p.CommunicationStyle
		fmt.Fprintf(&b, "- Communication: %s motivation, %s detail, %s personality, %s tone\n",
			cs.MotivationLevel, cs.DetailPreference, cs.PersonalityType, orNone(cs.PreferredTone))
		b.WriteString(BehaviorSummary(p))
		fmt.Fprintf(&b, "- Coaching effectiveness: %.0f/100\n", p.EffectivenessScore)
	}

	b.WriteString("\n## Observed Behavior Patterns\n")
	if len(patterns) == 0 {
		b.WriteString("- none\n")
	}
	for _, bp := range patterns {
		fmt.Fprintf(&b, "- %s: %s (confidence: %d%%)\n", bp.PatternType, bp.PatternData.Description, bp.ConfidenceScore)
	}

	b.WriteString("\n## Recent Feedback\n")
	if len(feedback) == 0 {
		b.WriteString("- none\n")
	}
	for _, f := range feedback {
		rating := "n/a"
		if f.Rating != nil {
			rating = fmt.Sprintf("%d", *f.Rating)
		}
		fmt.Fprintf(&b, "- %s: %s/5 - %s\n", f.InteractionType, rating, f.FeedbackText)
	}

	b.WriteString("\n## Current Context\n")
	lines := contextLines(uc)
	if len(lines) == 0 {
		b.WriteString("- none provided\n")
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "- %s\n", l)
	}

	b.WriteString(`
## Task
Produce up to 4 personalized recommendations. Each has a type (workout, recovery, nutrition or motivation),
a short title, a description, your confidence between 0 and 1, the reasoning, concrete action steps and a
priority (low, medium or high). Also list the primary contextual factors that drove these recommendations.
`)
	return b.String()
}
