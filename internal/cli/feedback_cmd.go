package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
)

const analyzeWindow = 50

func newFeedbackCmd(st *state) *cobra.Command {
	var interactionID, interactionType, text string
	var rating int

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Rate a coaching interaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.engine(cmd.Context())
			if err != nil {
				return err
			}

			fb := domain.Feedback{
				InteractionID:   interactionID,
				InteractionType: interactionType,
				FeedbackText:    text,
			}
			if cmd.Flags().Changed("rating") {
				fb.Rating = &rating
			}
			if err := app.Coach.ProcessFeedback(cmd.Context(), st.userID, fb); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "feedback recorded")
			return err
		},
	}
	cmd.Flags().StringVar(&interactionID, "interaction", "", "Interaction id being rated")
	cmd.Flags().StringVar(&interactionType, "type", domain.InteractionChat, "Interaction type")
	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&text, "text", "", "Free-text comment")

	cmd.AddCommand(newFeedbackAnalyzeCmd(st))
	return cmd
}

func newFeedbackAnalyzeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Summarize recent ratings and detected patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.engine(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			records, err := app.Store.GetFeedback(ctx, st.userID, analyzeWindow)
			if err != nil {
				return err
			}
			patterns, err := app.Store.GetBehaviorPatterns(ctx, st.userID)
			if err != nil {
				return err
			}
			profile, err := app.Coach.Profile(ctx, st.userID)
			if err != nil {
				return err
			}
			analysis := coach.AnalyzeFeedback(records)
			if st.asJSON {
				out := map[string]any{"analysis": analysis, "patterns": patterns}
				if profile != nil {
					out["effectiveness"] = profile.EffectivenessScore
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "records: %d\n", len(records))
			fmt.Fprintf(w, "average rating: %.2f\n", analysis.AverageRating)
			if profile != nil {
				fmt.Fprintf(w, "effectiveness: %.0f/100\n", profile.EffectivenessScore)
			}

			types := make([]string, 0, len(analysis.TypeAverages))
			for t := range analysis.TypeAverages {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				fmt.Fprintf(w, "  %s: %.2f\n", t, analysis.TypeAverages[t])
			}
			for _, p := range patterns {
				fmt.Fprintf(w, "pattern %s: %s (confidence %d%%)\n", p.PatternType, p.PatternData.Description, p.ConfidenceScore)
			}
			return nil
		},
	}
}
