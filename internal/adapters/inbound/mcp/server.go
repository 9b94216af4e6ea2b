package mcp

import (
	"github.com/heartlink/heartlink/internal/application"
	"github.com/mark3labs/mcp-go/server"
)

const serverVersion = "0.1.0"

// NewHeartLinkMCPServer creates an MCP server exposing the environment check
// for the project rooted at projectPath.
func NewHeartLinkMCPServer(projectPath string, svc *application.CheckService) *server.MCPServer {
	s := server.NewMCPServer(
		"heartlink",
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
