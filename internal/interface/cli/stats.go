package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chat collection statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	database, st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	stats := st.Stats()

	fmt.Println("Chat Statistics")
	fmt.Println("===============")
	fmt.Printf("Chats:              %d\n", stats.TotalChats)
	fmt.Printf("Starred:            %d\n", stats.StarredChats)
	fmt.Printf("Messages:           %d\n", stats.TotalMessages)
	fmt.Printf("  from you:         %d\n", stats.UserMessages)
	fmt.Printf("  from assistant:   %d\n", stats.AssistantMsgs)
	if !stats.OldestChat.IsZero() {
		fmt.Printf("Oldest chat:        %s\n", humanize.Time(stats.OldestChat))
	}
	if !stats.NewestUpdate.IsZero() {
		fmt.Printf("Last activity:      %s\n", humanize.Time(stats.NewestUpdate))
	}
	return nil
}
