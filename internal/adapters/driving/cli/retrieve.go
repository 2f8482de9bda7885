package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	retrieveLimit int
	retrieveJSON  bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <document-id> <query>",
	Short: "Find the chunks of a document most relevant to a query",
	Long: `Embeds the query and returns the most similar chunks of the document,
most similar first. Chunks below the configured similarity threshold are
left out.`,
	Args: cobra.ExactArgs(2),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", 0, "maximum number of chunks (0 = retrieval.limit)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context(), settings, appOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	chunks := app.Retrieval.GetRelevantChunks(cmd.Context(), args[0], args[1], retrieveLimit)

	if retrieveJSON {
		data, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(chunks) == 0 {
		cmd.Println("No relevant chunks found.")
		return nil
	}
	for i, chunk := range chunks {
		cmd.Printf("[%d] %s\n\n", i+1, chunk)
	}
	return nil
}
