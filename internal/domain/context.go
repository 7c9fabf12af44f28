package domain

import (
	"fmt"
	"strings"
)

// UserContext is the situational context supplied with a single call.
// It is never persisted as a whole.
type UserContext struct {
	CurrentGoals   []string  `json:"current_goals,omitempty"`
	RecentActivity string    `json:"recent_activity,omitempty"`
	Mood           string    `json:"mood,omitempty"`
	Environment    string    `json:"environment,omitempty"`
	Weather        *Weather  `json:"weather,omitempty"`
	Schedule       *Schedule `json:"schedule,omitempty"`
}

type Weather struct {
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"` // celsius
}

func (w Weather) String() string {
	return fmt.Sprintf("%s, %.0f°C", w.Condition, w.Temperature)
}

type Schedule struct {
	Flexibility      string `json:"flexibility,omitempty"`
	AvailableMinutes int    `json:"available_minutes,omitempty"`
}

var rainConditions = map[string]bool{
	"rain":          true,
	"rainy":         true,
	"raining":       true,
	"light rain":    true,
	"moderate rain": true,
	"heavy rain":    true,
	"freezing rain": true,
	"showers":       true,
	"rain showers":  true,
	"drizzle":       true,
	"light drizzle": true,
}

// IsRaining reports whether the weather condition names current rain. The
// condition is matched whole, so "dry after overnight rain" is not rain.
func (c UserContext) IsRaining() bool {
	if c.Weather == nil {
		return false
	}
	condition := strings.Join(strings.Fields(strings.ToLower(c.Weather.Condition)), " ")
	return rainConditions[condition]
}

// IsFatigued reports whether the mood indicates the user is tired or stressed.
func (c UserContext) IsFatigued() bool {
	switch strings.ToLower(strings.TrimSpace(c.Mood)) {
	case "tired", "stressed":
		return true
	}
	return false
}

// Fields returns the non-empty context fields as "field: value" strings, in a
// fixed order.
func (c UserContext) Fields() []string {
	var out []string
	if len(c.CurrentGoals) > 0 {
		out = append(out, "currentGoals: "+strings.Join(c.CurrentGoals, ", "))
	}
	if c.RecentActivity != "" {
		out = append(out, "recentActivity: "+c.RecentActivity)
	}
	if c.Mood != "" {
		out = append(out, "mood: "+c.Mood)
	}
	if c.Environment != "" {
		out = append(out, "environment: "+c.Environment)
	}
	if c.Weather != nil && c.Weather.Condition != "" {
		out = append(out, "weather: "+c.Weather.String())
	}
	if c.Schedule != nil {
		if c.Schedule.Flexibility != "" {
			out = append(out, "scheduleFlexibility: "+c.Schedule.Flexibility)
		}
		if c.Schedule.AvailableMinutes > 0 {
			out = append(out, fmt.Sprintf("availableMinutes: %d", c.Schedule.AvailableMinutes))
		}
	}
	return out
}
