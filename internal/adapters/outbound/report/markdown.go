package report

import (
	"bytes"
	"strconv"

	"github.com/heartlink/heartlink/internal/adapters/outbound/tui"
	"github.com/heartlink/heartlink/internal/domain"
	"github.com/nao1215/markdown"
)

// MarkdownWriter implements domain.ReportWriter with a GitHub-flavored
// Markdown document.
type MarkdownWriter struct{}

func NewMarkdownWriter() *MarkdownWriter { return &MarkdownWriter{} }

func (w *MarkdownWriter) Write(path string, report *domain.Report) error {
	data, err := RenderMarkdown(report)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// RenderMarkdown builds the Markdown document for report.
func RenderMarkdown(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1(tui.ReportTitle)
	md.PlainText("")

	info := [][]string{
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	if report.Hostname != "" {
		info = append(info, []string{"Host", report.Hostname})
	}
	if report.CommitHash != "" {
		info = append(info, []string{"Commit", "`" + report.CommitHash + "`"})
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: info})
	md.PlainText("")

	md.H2("Checks")
	md.PlainText("")
	rows := make([][]string, len(report.Results))
	for i, res := range report.Results {
		rows[i] = []string{res.Name, statusBadge(res.Status), res.Message}
	}
	md.Table(markdown.TableSet{Header: []string{"Check", "Status", "Details"}, Rows: rows})
	md.PlainText("")

	ok, warn, fail := report.Counts()
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"OK", strconv.Itoa(ok)},
			{"WARN", strconv.Itoa(warn)},
			{"FAIL", strconv.Itoa(fail)},
		},
	})
	md.PlainText("")

	switch report.Status {
	case domain.StatusOK:
		md.Tip(report.Summary)
	case domain.StatusWarn:
		md.Warning(report.Summary)
	default:
		md.Caution(report.Summary)
	}

	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statusBadge(s domain.Status) string {
	switch s {
	case domain.StatusOK:
		return "✅ OK"
	case domain.StatusWarn:
		return "⚠️ WARN"
	default:
		return "❌ " + string(s)
	}
}
