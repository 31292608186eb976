package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hondachat/internal/core/auth"
	"hondachat/internal/core/config"
	"hondachat/internal/core/remote"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch chats from the backend",
	Long: `Fetch your chat history from the backend and replace the local
collection with it.

Requires a credential (see 'hondachat auth'). Without one the command
is a no-op and your local chats are untouched.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	before := len(st.Chats())
	gateway := remote.NewGateway(newBackendClient(cfg, database), auth.NewSource(database), cfg.RequestTimeout)
	if err := gateway.FetchAndMerge(context.Background(), st); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	after := len(st.Chats())
	fmt.Printf("Synced: %d chat(s) locally (was %d)\n", after, before)
	return nil
}
