package report_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartlink/heartlink/internal/adapters/outbound/report"
	"github.com/heartlink/heartlink/internal/adapters/outbound/tui"
	"github.com/heartlink/heartlink/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	r := domain.NewReport([]domain.CheckResult{
		domain.OK("system", "linux-amd64"),
		domain.Warn("gpu", "no GPU detected"),
		domain.Fail("pip", "pip not found"),
	}, time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC))
	r.CommitHash = "abc1234"
	return r
}

func TestTextWriter_WritesPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "env_report.txt")
	r := sampleReport()

	require.NoError(t, report.NewTextWriter().Write(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tui.PlainText(r), string(data))
}

func TestTextWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env_report.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than anything"), 0644))

	r := domain.NewReport(nil, time.Now())
	require.NoError(t, report.NewTextWriter().Write(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tui.PlainText(r), string(data))
}

func TestTextWriter_PathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	err := report.NewTextWriter().Write(dir, sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing report")
}

func TestTextWriter_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := report.NewTextWriter().Write(filepath.Join(blocker, "env_report.txt"), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating report directory")
}

func TestRenderMarkdown(t *testing.T) {
	data, err := report.RenderMarkdown(sampleReport())
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# HeartLink environment report")
	assert.Contains(t, out, "## Checks")
	assert.Contains(t, out, "system")
	assert.Contains(t, out, "❌ FAIL")
	assert.Contains(t, out, "no GPU detected")
	assert.Contains(t, out, "`abc1234`")
	assert.Contains(t, out, "[!CAUTION]")
}

func TestMarkdownWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "env_report.md")
	require.NoError(t, report.NewMarkdownWriter().Write(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Summary")
}
