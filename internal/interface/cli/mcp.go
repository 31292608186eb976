package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hondachat/cmd/hondachat/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server over the local chat store",
	Long: `Start an MCP (Model Context Protocol) server that exposes your
local chat history to MCP clients.

Configure in your client's MCP settings, e.g.:
  {
    "mcpServers": {
      "hondachat": {
        "command": "hondachat",
        "args": ["mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := mcp.StartServer(dbPath); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
