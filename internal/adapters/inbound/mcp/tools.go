package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/heartlink/heartlink/internal/application"
	"github.com/heartlink/heartlink/internal/domain"
)

const envCheckTool = "heartlink_env_check"

func registerTools(s *server.MCPServer, projectPath string, svc *application.CheckService) {
	s.AddTool(
		mcplib.NewTool(envCheckTool,
			mcplib.WithDescription("Run the HeartLink environment check (OS, Python, Node.js, npm, pip, GPU, .env) and return the report as JSON"),
			mcplib.WithBoolean("save", mcplib.Description("Save the text report and record the run in history (default: true)")),
		),
		handleEnvCheck(projectPath, svc),
	)
}

// envCheckResult is the tool payload: the report plus where it was saved.
type envCheckResult struct {
	Report     *domain.Report `json:"report"`
	ReportPath string         `json:"report_path,omitempty"`
	SaveError  string         `json:"save_error,omitempty"`
}

func handleEnvCheck(projectPath string, svc *application.CheckService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		save := request.GetBool("save", true)
		out, err := svc.Run(ctx, projectPath, application.CheckOptions{NoSave: !save})
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}

		res := envCheckResult{Report: out.Report, ReportPath: out.ReportPath}
		if out.SaveErr != nil {
			res.SaveError = out.SaveErr.Error()
		}
		return jsonResult(res)
	}
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
