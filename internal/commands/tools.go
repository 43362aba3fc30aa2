package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sqsp-tools/squarespace-mcp/internal/mcpserver"
)

// NewToolsCmd creates the tools command.
func NewToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the MCP tool catalog",
		Long:  "Print every tool the server registers. Listing needs no credentials; tool registration never touches the API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := FromContext(cmd.Context())

			tools := mcpserver.New(nil, app.Log).Tools()

			if asJSON {
				out, err := json.MarshalIndent(tools, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(out))
				return nil
			}

			for _, t := range tools {
				cmd.Printf("%-32s %s\n", t.Name, t.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
