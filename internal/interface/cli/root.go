package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hondachat/internal/core/auth"
	"hondachat/internal/core/backend"
	"hondachat/internal/core/config"
	"hondachat/internal/core/db"
	"hondachat/internal/core/store"
)

var (
	dbPath      string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hondachat",
	Short: "Chat client for the justfish.dev portfolio backend",
	Long: `hondachat - chat with the portfolio RAG backend from your terminal

Conversations are kept locally in a SQLite database and merged with the
server-side history when a credential is configured. Run without a
subcommand for the interactive TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "Database path")
}

// openStore opens the database and hydrates a store from the saved
// state. The caller owns closing the returned database.
func openStore() (*db.DB, *store.Store, error) {
	database, err := db.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	state, err := database.LoadState()
	if err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("failed to load chat state: %w", err)
	}
	return database, store.New(state, store.WithPersister(database)), nil
}

func newBackendClient(cfg *config.Config, database *db.DB) *backend.Client {
	return backend.NewClient(backend.ClientConfig{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.RequestTimeout,
		Tokens:  auth.NewSource(database),
	})
}
