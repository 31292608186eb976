package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"hondachat/internal/core/models"
)

var showCmd = &cobra.Command{
	Use:   "show [chat]",
	Short: "Print a chat transcript",
	Long: `Print the full transcript of a chat to the terminal.

Without an argument the active chat is shown. Use 'hondachat export'
to write a transcript to a file instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	database, st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	var chat models.Chat
	if len(args) == 1 {
		chat, err = st.Find(args[0])
		if err != nil {
			return err
		}
	} else {
		var ok bool
		chat, ok = st.CurrentChat()
		if !ok {
			return fmt.Errorf("no active chat")
		}
	}

	fmt.Printf("%s  (%s, updated %s)\n", chat.Title, shortID(chat.ID), humanize.Time(chat.LastUpdated))
	if len(chat.Messages) == 0 {
		fmt.Println("\n(no messages yet)")
		return nil
	}
	for _, msg := range chat.Messages {
		label := "You"
		if msg.Role == models.RoleAssistant {
			label = "Assistant"
		}
		fmt.Printf("\n%s · %s\n%s\n", label, msg.Timestamp.Format("2006-01-02 15:04"), msg.Content)
		for _, src := range msg.Sources {
			fmt.Printf("  [source] %s\n", src.Title)
		}
	}
	return nil
}
