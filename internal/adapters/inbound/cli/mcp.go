package cli

import (
	mcpadapter "github.com/heartlink/heartlink/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the HeartLink MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start HeartLink MCP server (stdio)",
		Long:  "Start the HeartLink MCP server using stdio transport. AI coding assistants can run the environment check and read the last saved report.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpadapter.NewHeartLinkMCPServer(opts.path, opts.service(cmd))
			return server.ServeStdio(s)
		},
	}
}
