package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hondachat/internal/core/models"
	"hondachat/internal/core/search"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search message content across all chats",
	Long: `Case-insensitive substring search over every message in every chat.

Examples:
  hondachat find "kubernetes"
  hondachat find "side project"`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	database, st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	results, err := search.Search(st.Display(), args[0])
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("No matches for %q\n", args[0])
		return nil
	}

	total := 0
	for _, r := range results {
		total += len(r.Matches)
	}
	fmt.Printf("Found %d match(es) in %d chat(s)\n", total, len(results))
	for _, r := range results {
		fmt.Printf("\n%s (%s)\n", r.ChatTitle, shortID(r.ChatID))
		for _, m := range r.Matches {
			label := "you"
			if m.Role == models.RoleAssistant {
				label = "assistant"
			}
			// Snippets can contain newlines; flatten for one-line display.
			snippet := strings.ReplaceAll(m.Snippet, "\n", " ")
			fmt.Printf("  #%d %s: %s\n", m.Index+1, label, snippet)
		}
	}
	return nil
}
