// Package cli implements coachctl, the operator command line for the
// coaching engine.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

// Coach is the engine surface the commands drive.
type Coach interface {
	GeneratePersonalizedResponse(ctx context.Context, userID, query string, uc domain.UserContext, opts coach.Options) (*domain.CoachingResponse, error)
	GenerateAdaptiveRecommendations(ctx context.Context, userID string, uc domain.UserContext) []domain.AdaptiveRecommendation
	ProcessFeedback(ctx context.Context, userID string, f domain.Feedback) error
	Profile(ctx context.Context, userID string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, p *domain.Profile) error
}

// App holds what the commands run against.
type App struct {
	Coach    Coach
	CoachErr error // why Coach is nil
	Store    coach.Store
	Migrate  func(ctx context.Context) error // nil when there is no database
	Close    func()
}

// Loader builds an App. memory selects the in-process store.
type Loader func(ctx context.Context, memory bool) (*App, error)

type state struct {
	load   Loader
	app    *App
	userID string
	memory bool
	asJSON bool
}

// get builds the App on first use so commands like kb never touch the database.
func (s *state) get(ctx context.Context) (*App, error) {
	if s.app != nil {
		return s.app, nil
	}
	app, err := s.load(ctx, s.memory)
	if err != nil {
		return nil, err
	}
	s.app = app
	return app, nil
}

// engine is get for commands that talk to the coach on behalf of --user.
func (s *state) engine(ctx context.Context) (*App, error) {
	if s.userID == "" {
		return nil, fmt.Errorf("--user is required")
	}
	app, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	if app.Coach == nil {
		return nil, fmt.Errorf("coach unavailable: %w", app.CoachErr)
	}
	return app, nil
}

func (s *state) requireUser() error {
	if s.userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

// NewRootCmd creates the top-level "coachctl" command.
func NewRootCmd(load Loader) *cobra.Command {
	st := &state{load: load}
	root := &cobra.Command{
		Use:           "coachctl",
		Short:         "Personalized running coach from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st.app != nil && st.app.Close != nil {
				st.app.Close()
			}
		},
	}
	root.PersistentFlags().StringVarP(&st.userID, "user", "u", "", "User id to act as")
	root.PersistentFlags().BoolVar(&st.memory, "memory", false, "Use an in-process store instead of Postgres")
	root.PersistentFlags().BoolVar(&st.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newMigrateCmd(st),
		newAskCmd(st),
		newRecommendCmd(st),
		newFeedbackCmd(st),
		newProfileCmd(st),
		newKnowledgeCmd(),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMigrateCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.get(cmd.Context())
			if err != nil {
				return err
			}
			if app.Migrate == nil {
				return fmt.Errorf("no database configured")
			}
			if err := app.Migrate(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return err
		},
	}
}
