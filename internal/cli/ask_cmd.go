package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
)

func newAskCmd(st *state) *cobra.Command {
	var cf contextFlags
	var strict bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the coach a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.engine(cmd.Context())
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			resp, err := app.Coach.GeneratePersonalizedResponse(cmd.Context(), st.userID, query, cf.userContext(), coach.Options{ThrowOnError: strict})
			if err != nil {
				return err
			}
			if st.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, resp.Response)
			if len(resp.KeyPoints) > 0 {
				fmt.Fprintln(w, "\nKey points:")
				for _, k := range resp.KeyPoints {
					fmt.Fprintf(w, "  - %s\n", k)
				}
			}
			if len(resp.SuggestedActions) > 0 {
				fmt.Fprintln(w, "\nTry this:")
				for _, a := range resp.SuggestedActions {
					fmt.Fprintf(w, "  - %s\n", a)
				}
			}
			if resp.Fallback {
				fmt.Fprintf(w, "\n(fallback: %s)\n", resp.FallbackReason)
				return nil
			}
			fmt.Fprintf(w, "\ninteraction: %s\n", resp.InteractionID)
			if resp.RequestFeedback {
				fmt.Fprintf(w, "How was this? coachctl feedback -u %s --interaction %s --rating 1-5\n", st.userID, resp.InteractionID)
			}
			return nil
		},
	}
	cf.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of printing a fallback answer")
	return cmd
}
