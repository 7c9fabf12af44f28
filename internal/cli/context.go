package cli

import (
	"github.com/spf13/cobra"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

// contextFlags collects the optional UserContext fields shared by ask and
// recommend.
type contextFlags struct {
	goals       []string
	activity    string
	mood        string
	environment string
	weather     string
	temperature float64
	flexibility string
	minutes     int
}

func (f *contextFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.goals, "goal", nil, "Current goal (repeatable)")
	fs.StringVar(&f.activity, "activity", "", "Recent activity summary")
	fs.StringVar(&f.mood, "mood", "", "How the athlete feels today")
	fs.StringVar(&f.environment, "environment", "", "Training environment")
	fs.StringVar(&f.weather, "weather", "", "Weather condition, e.g. rain")
	fs.Float64Var(&f.temperature, "temp", 0, "Temperature in celsius")
	fs.StringVar(&f.flexibility, "flexibility", "", "Schedule flexibility")
	fs.IntVar(&f.minutes, "minutes", 0, "Minutes available")
}

func (f *contextFlags) userContext() domain.UserContext {
	uc := domain.UserContext{
		CurrentGoals:   f.goals,
		RecentActivity: f.activity,
		Mood:           f.mood,
		Environment:    f.environment,
	}
	if f.weather != "" {
		uc.Weather = &domain.Weather{Condition: f.weather, Temperature: f.temperature}
	}
	if f.flexibility != "" || f.minutes > 0 {
		uc.Schedule = &domain.Schedule{Flexibility: f.flexibility, AvailableMinutes: f.minutes}
	}
	return uc
}
