package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new chat and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, st, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = database.Close()
		}()

		id := st.NewChat()
		fmt.Printf("Created chat %s\n", shortID(id))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <chat>",
	Short: "Delete a chat",
	Long: `Delete a chat by id prefix or title.

If the deleted chat was active, the next one in the list becomes active.
Deleting the last chat starts a fresh empty one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		st.DeleteChat(chat.ID)
		fmt.Printf("Deleted %q\n", chat.Title)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <chat> <title>",
	Short: "Rename a chat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if err := st.RenameChat(chat.ID, args[1]); err != nil {
			return err
		}
		fmt.Printf("Renamed %q to %q\n", chat.Title, args[1])
		return nil
	},
}

var starCmd = &cobra.Command{
	Use:   "star <chat>",
	Short: "Star or unstar a chat",
	Long:  "Toggle the star on a chat. Starred chats sort first in listings.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if err := st.ToggleStar(chat.ID); err != nil {
			return err
		}
		if updated, ok := st.Get(chat.ID); ok && updated.Starred {
			fmt.Printf("Starred %q\n", updated.Title)
		} else {
			fmt.Printf("Unstarred %q\n", chat.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(starCmd)
}
