package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var collectionYes bool

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage vector store collections",
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all collections",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureServices(); err != nil {
			return err
		}

		names, err := vectorStore.ListCollections(cmd.Context())
		if err != nil {
			return fmt.Errorf("list collections: %w", err)
		}
		if len(names) == 0 {
			cmd.Println("No collections.")
			return nil
		}
		for _, name := range names {
			cmd.Println(name)
		}
		return nil
	},
}

var collectionCountCmd = &cobra.Command{
	Use:   "count [name]",
	Short: "Show the number of records in a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(); err != nil {
			return err
		}

		n, err := vectorStore.Count(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("count %s: %w", args[0], err)
		}
		cmd.Printf("%s: %d records\n", args[0], n)
		return nil
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a collection and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(); err != nil {
			return err
		}
		if !collectionYes {
			return fmt.Errorf("refusing to delete %q without --yes", args[0])
		}

		if err := vectorStore.DeleteCollection(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete %s: %w", args[0], err)
		}
		cmd.Printf("Collection %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	collectionDeleteCmd.Flags().BoolVarP(&collectionYes, "yes", "y", false, "confirm deletion")
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionCountCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	rootCmd.AddCommand(collectionCmd)
}
