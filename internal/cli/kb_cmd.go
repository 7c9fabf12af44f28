package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/briangreenhill/adaptivecoach/internal/prompt"
)

func newKnowledgeCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Print the knowledge base injected into prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := prompt.LoadKnowledgeBase(path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), kb.Text())
			return err
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "Knowledge base YAML file (default: embedded)")
	return cmd
}
