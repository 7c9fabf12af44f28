package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

func newProfileCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect or replace a coaching profile",
	}
	cmd.AddCommand(newProfileShowCmd(st), newProfileSetCmd(st))
	return cmd
}

func newProfileShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.engine(cmd.Context())
			if err != nil {
				return err
			}
			p, err := app.Coach.Profile(cmd.Context(), st.userID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no profile for user %s", st.userID)
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newProfileSetCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file|->",
		Short: "Store a profile read from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.requireUser(); err != nil {
				return err
			}
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read profile: %w", err)
			}
			p, err := parseProfile(data)
			if err != nil {
				return err
			}
			p.UserID = st.userID

			app, err := st.engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.Coach.SaveProfile(cmd.Context(), p); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "profile saved for %s\n", st.userID)
			return err
		},
	}
}

// parseProfile accepts YAML (and therefore JSON) using the profile's JSON
// field names.
func parseProfile(data []byte) (*domain.Profile, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	var p domain.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}
