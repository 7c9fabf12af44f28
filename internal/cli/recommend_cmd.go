package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecommendCmd(st *state) *cobra.Command {
	var cf contextFlags

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate adaptive recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.engine(cmd.Context())
			if err != nil {
				return err
			}

			recs := app.Coach.GenerateAdaptiveRecommendations(cmd.Context(), st.userID, cf.userContext())
			if st.asJSON {
				return printJSON(cmd.OutOrStdout(), recs)
			}

			w := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(w, "No recommendations right now.")
				return nil
			}
			for i, r := range recs {
				fmt.Fprintf(w, "%d. [%s/%s] %s (%.0f%%)\n", i+1, r.Type, r.Priority, r.Title, r.Confidence*100)
				fmt.Fprintf(w, "   %s\n", r.Description)
				for _, s := range r.ActionSteps {
					fmt.Fprintf(w, "   - %s\n", s)
				}
			}
			return nil
		},
	}
	cf.register(cmd)
	return cmd
}
