package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"menucatalog/internal/auth"
	"menucatalog/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the menu as MCP tools on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		srv, err := mcpserver.NewServer(mcpserver.Config{
			ServerName:    "menucatalog",
			ServerVersion: Version,
			Prices:        a.prices,
		}, a.store, a.recorder, a.log)
		if err != nil {
			return err
		}
		return withBackground(ctx, a.run, srv.Start)
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for auth.users[].password_hash",
	Args:  cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}
