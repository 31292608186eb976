package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hondachat/internal/core/db"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the backend credential",
	Long: `Manage the bearer token used for authenticated backend calls.

Without a token, chatting still works anonymously; only the server-side
history sync is skipped.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store a bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = database.Close()
		}()

		if err := database.SetToken(args[0]); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		fmt.Println("Token stored")
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = database.Close()
		}()

		if err := database.SetToken(""); err != nil {
			return fmt.Errorf("failed to clear token: %w", err)
		}
		fmt.Println("Token cleared")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a credential is configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = database.Close()
		}()

		token, err := database.Token()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		if token == "" {
			fmt.Println("No token stored (chatting is anonymous, sync disabled)")
		} else {
			fmt.Println("Token stored")
		}
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authClearCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
