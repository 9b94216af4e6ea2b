package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/heartlink/heartlink/internal/application"
	"github.com/heartlink/heartlink/internal/domain"
)

const (
	reportURI  = "heartlink://report"
	historyURI = "heartlink://history"
)

func registerResources(s *server.MCPServer, projectPath string, svc *application.CheckService) {
	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Environment Report",
			mcplib.WithResourceDescription("Last saved plain-text environment report"),
			mcplib.WithMIMEType("text/plain"),
		),
		handleReportResource(projectPath, svc),
	)

	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Check History",
			mcplib.WithResourceDescription("Recorded environment check runs"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath, svc),
	)
}

func handleReportResource(projectPath string, svc *application.CheckService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		path, err := svc.ReportPath(projectPath)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no report saved at %s, run %s first", path, envCheckTool)
		}
		if err != nil {
			return nil, fmt.Errorf("reading report: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      reportURI,
				MIMEType: "text/plain",
				Text:     string(data),
			},
		}, nil
	}
}

func handleHistoryResource(projectPath string, svc *application.CheckService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := svc.History(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling history: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      historyURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
