package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hondachat/pkg/transcript"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <chat>",
	Short: "Export a chat transcript to a file",
	Long: `Export a chat to markdown, JSON, or JSONL.

By default writes chat-<id>.<ext> in the current directory.
Use --output to specify a custom path.

Examples:
  hondachat export 0ccfddc4
  hondachat export "Tell me about your experience..." --format json
  hondachat export 0ccfddc4 -o transcript.md`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: chat-<id>.<ext> in current directory)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Output format: markdown, json, or jsonl")
}

func runExport(cmd *cobra.Command, args []string) error {
	exporter, err := transcript.NewExporter(exportFormat)
	if err != nil {
		return err
	}

	database, st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	chat, err := st.Find(args[0])
	if err != nil {
		return err
	}

	outputPath := exportOutput
	if outputPath == "" {
		outputPath = fmt.Sprintf("chat-%s.%s", shortID(chat.ID), exporter.Extension())
	}
	if !filepath.IsAbs(outputPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputPath = filepath.Join(cwd, outputPath)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := exporter.Export(&chat, f); err != nil {
		return fmt.Errorf("failed to export chat: %w", err)
	}

	fmt.Printf("Exported %q to %s\n", chat.Title, outputPath)
	return nil
}
