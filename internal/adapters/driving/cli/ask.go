package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

var (
	askCollection string
	askWeb        bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Assemble retrieval context for a question",
	Long: `Builds the bounded retrieval context for a question: similarity
search passages from the collection first, then optionally live PubMed
results with a numbered reference list.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCollection, "collection", "C", "", "vector store collection to search")
	askCmd.Flags().BoolVarP(&askWeb, "web", "w", false, "include live PubMed results")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if askCollection == "" && !askWeb {
		return fmt.Errorf("nothing to search: pass --collection and/or --web")
	}

	result, err := assembler.Assemble(cmd.Context(), args[0], driving.AssembleOptions{
		Collection:   askCollection,
		UseWebSearch: askWeb,
	})
	if err != nil {
		return fmt.Errorf("assemble context: %w", err)
	}

	if result.Context == "" {
		cmd.Println("No context found.")
		return nil
	}

	cmd.Println(result.Context)
	if len(result.Sources) > 0 {
		cmd.Printf("\n%d web sources cited.\n", len(result.Sources))
	}
	return nil
}
