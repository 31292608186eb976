package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"hondachat/internal/core/models"
)

var (
	listLimit   int
	listStarred bool
	listSince   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats",
	Long: `List chats with starred conversations first, then most recently
updated.

Examples:
  hondachat list
  hondachat list --starred
  hondachat list --since "last week"
  hondachat list --limit 10`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of chats to display")
	listCmd.Flags().BoolVar(&listStarred, "starred", false, "Only show starred chats")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only show chats updated since (e.g. \"yesterday\", \"last week\")")
}

func runList(cmd *cobra.Command, args []string) error {
	database, st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	var since time.Time
	if listSince != "" {
		since, err = parseSince(listSince)
		if err != nil {
			return err
		}
	}

	chats := st.Display()
	currentID := st.CurrentChatID()

	shown := []models.Chat{}
	for _, c := range chats {
		if listStarred && !c.Starred {
			continue
		}
		if !since.IsZero() && c.LastUpdated.Before(since) {
			continue
		}
		shown = append(shown, c)
		if len(shown) >= listLimit {
			break
		}
	}

	if len(shown) == 0 {
		fmt.Println("No chats found. Start one with 'hondachat ask' or 'hondachat new'.")
		return nil
	}

	fmt.Printf("Showing %d chat(s)\n\n", len(shown))
	for i, c := range shown {
		marker := " "
		if c.ID == currentID {
			marker = "*"
		}
		star := ""
		if c.Starred {
			star = " ★"
		}
		fmt.Printf("[%d]%s %s%s\n", i+1, marker, c.Title, star)
		fmt.Printf("    %s · %d message(s) · updated %s\n",
			shortID(c.ID), len(c.Messages), humanize.Time(c.LastUpdated))
	}
	return nil
}

// parseSince resolves natural-language times like "last week" into a
// cutoff timestamp.
func parseSince(expr string) (time.Time, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(expr, time.Now())
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("could not understand time expression %q", expr)
	}
	return result.Time, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
