package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hondachat/internal/core/config"
	"hondachat/internal/relay"
)

var relayAddr string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the contact-form mail relay",
	Long: `Run the HTTP relay that accepts contact-form submissions on
POST /api/contact and forwards them by email.

SMTP credentials come from the [mail] section of config.toml; the
password can also be set via HONDACHAT_SMTP_PASSWORD.`,
	RunE: runRelay,
}

func init() {
	rootCmd.AddCommand(relayCmd)
	relayCmd.Flags().StringVar(&relayAddr, "addr", "", "Listen address (default from config, "+config.DefaultRelayAddr+")")
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	addr := relayAddr
	if addr == "" {
		addr = cfg.RelayAddr
	}

	server := relay.NewServer(cfg.Mail, nil)
	return server.ListenAndServe(addr)
}
