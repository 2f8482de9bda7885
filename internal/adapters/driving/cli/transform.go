package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

var (
	transformDocument    string
	transformStyle       string
	transformShowContext bool
)

var transformCmd = &cobra.Command{
	Use:   "transform <text>",
	Short: "Rewrite text in an academic register",
	Long: `Rewrites the text with the configured generation model. With --document,
the most relevant chunks of that document are given to the model as context.

Examples:
  docley transform "so basically the results were kind of good"
  docley transform -d 3f2a... --style concise "we did a survey"`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringVarP(&transformDocument, "document", "d", "", "document to draw context from")
	transformCmd.Flags().StringVarP(&transformStyle, "style", "s", "", "style hint, e.g. formal or concise")
	transformCmd.Flags().BoolVar(&transformShowContext, "show-context", false, "print the context chunks used")
	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context(), settings, appOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	result, err := app.Transform.Transform(cmd.Context(), driving.TransformRequest{
		DocumentID: transformDocument,
		Text:       args[0],
		Style:      transformStyle,
	})
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}

	if transformShowContext {
		cmd.Printf("Context (%d chunks):\n", len(result.Context))
		for i, chunk := range result.Context {
			cmd.Printf("  [%d] %s\n", i+1, chunk)
		}
		cmd.Println()
	}
	cmd.Println(result.Text)
	return nil
}
