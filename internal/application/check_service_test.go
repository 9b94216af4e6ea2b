package application_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartlink/heartlink/internal/application"
	"github.com/heartlink/heartlink/internal/domain"
	"github.com/heartlink/heartlink/internal/domain/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s stubConfig) Load(string) (domain.Config, error) { return s.cfg, s.err }

type stubCommands struct{ ok map[string]string }

func (s stubCommands) Run(_ context.Context, name string, args ...string) domain.CommandResult {
	if out, found := s.ok[name]; found {
		return domain.CommandResult{OK: true, Output: out}
	}
	return domain.CommandResult{Err: errors.New("not found")}
}

type stubHost struct{}

func (stubHost) Inspect(context.Context) domain.HostInfo {
	return domain.HostInfo{OS: "linux", Arch: "amd64", Hostname: "ci-runner"}
}

type stubGPU struct{}

func (stubGPU) Detect(context.Context) ([]domain.GPU, error) { return nil, domain.ErrNoGPU }

type stubEnv struct{ path *string }

func (s stubEnv) Read(path string) (map[string]string, error) {
	*s.path = path
	return map[string]string{"OPENAI_API_KEY": "sk"}, nil
}

type recordingWriter struct {
	paths []string
	err   error
}

func (w *recordingWriter) Write(path string, _ *domain.Report) error {
	w.paths = append(w.paths, path)
	return w.err
}

type memHistory struct {
	saved   map[string][]domain.HistoryEntry
	saveErr error
}

func (h *memHistory) Save(path string, e domain.HistoryEntry) error {
	if h.saveErr != nil {
		return h.saveErr
	}
	h.saved[path] = append(h.saved[path], e)
	return nil
}

func (h *memHistory) Load(path string) ([]domain.HistoryEntry, error) { return h.saved[path], nil }

type stubGit struct{ hash string }

func (g stubGit) IsGitRepo(string) bool { return g.hash != "" }

func (g stubGit) CommitHash(string) (string, error) { return g.hash, nil }

type fixture struct {
	svc      *application.CheckService
	text     *recordingWriter
	markdown *recordingWriter
	history  *memHistory
	envPath  string
}

var fixedNow = time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

func newFixture(cfg domain.Config, commands map[string]string) *fixture {
	f := &fixture{
		text:     &recordingWriter{},
		markdown: &recordingWriter{},
		history:  &memHistory{saved: map[string][]domain.HistoryEntry{}},
	}
	f.svc = application.NewCheckService(application.Adapters{
		Config: stubConfig{cfg: cfg},
		Probes: check.Deps{
			Host:     stubHost{},
			Commands: stubCommands{ok: commands},
			GPU:      stubGPU{},
			EnvFile:  stubEnv{path: &f.envPath},
		},
		Text:     f.text,
		Markdown: f.markdown,
		History:  f.history,
		Git:      stubGit{hash: "0123456789abcdef"},
	}, nil).WithClock(func() time.Time { return fixedNow })
	return f
}

func healthyCommands() map[string]string {
	return map[string]string{"python3": "Python 3.12.1", "node": "v20.0.0", "npm": "10.0.0"}
}

func TestCheckService_Run(t *testing.T) {
	f := newFixture(domain.DefaultConfig(), healthyCommands())

	out, err := f.svc.Run(context.Background(), "/proj", application.CheckOptions{})
	require.NoError(t, err)

	r := out.Report
	require.Len(t, r.Results, len(domain.ProbeOrder))
	assert.Equal(t, domain.StatusWarn, r.Status, "missing GPU is a warning")
	assert.Equal(t, fixedNow, r.GeneratedAt)
	assert.Equal(t, "ci-runner", r.Hostname)
	assert.Equal(t, "0123456789abcdef", r.CommitHash)

	assert.Equal(t, filepath.Join("/proj", ".env"), f.envPath)
	assert.Equal(t, filepath.Join("/proj", "data", "env_report.txt"), out.ReportPath)
	assert.Equal(t, []string{out.ReportPath}, f.text.paths)
	assert.Empty(t, f.markdown.paths)
	assert.NoError(t, out.SaveErr)

	entries := f.history.saved[filepath.Join("/proj", "data", "history.json")]
	require.Len(t, entries, 1)
	assert.Equal(t, domain.StatusWarn, entries[0].Status)
	assert.Equal(t, "0123456789abcdef", entries[0].CommitHash)
}

func TestCheckService_MissingPythonFails(t *testing.T) {
	f := newFixture(domain.DefaultConfig(), map[string]string{"node": "v20.0.0"})

	out, err := f.svc.Run(context.Background(), "/proj", application.CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFail, out.Report.Status)
	assert.Equal(t, domain.SummaryMessage(domain.StatusFail), out.Report.Summary)
}

func TestCheckService_OutputOverrideAndMarkdown(t *testing.T) {
	f := newFixture(domain.DefaultConfig(), healthyCommands())

	out, err := f.svc.Run(context.Background(), "/proj", application.CheckOptions{
		OutputPath: "reports/today.txt",
		Markdown:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/proj", "reports", "today.txt"), out.ReportPath)
	assert.Equal(t, filepath.Join("/proj", "reports", "today.md"), out.MarkdownPath)
	assert.Equal(t, []string{out.MarkdownPath}, f.markdown.paths)
}

func TestCheckService_AbsolutePathsKept(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.EnvFile = "/etc/app/.env"
	f := newFixture(cfg, healthyCommands())

	_, err := f.svc.Run(context.Background(), "/proj", application.CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/etc/app/.env", f.envPath)
}

func TestCheckService_SaveFailureIsNotFatal(t *testing.T) {
	f := newFixture(domain.DefaultConfig(), healthyCommands())
	f.text.err = errors.New("read-only file system")

	out, err := f.svc.Run(context.Background(), "/proj", application.CheckOptions{})
	require.NoError(t, err)
	require.Error(t, out.SaveErr)
	assert.Contains(t, out.SaveErr.Error(), "read-only")
	assert.NotNil(t, out.Report)
}

func TestCheckService_HistoryFailureIsIgnored(t *testing.T) {
	f := newFixture(domain.DefaultConfig(), healthyCommands())
	f.history.saveErr = errors.New("disk full")

	out, err := f.svc.Run(context.Background(), "/proj", application.CheckOptions{})
	require.NoError(t, err)
	assert.NoError(t, out.SaveErr)
}

func TestCheckService_NoSave(t *testing.T) {
	f := newFixture(domain.DefaultConfig(), healthyCommands())

	out, err := f.svc.Run(context.Background(), "/proj", application.CheckOptions{NoSave: true})
	require.NoError(t, err)
	assert.Empty(t, out.ReportPath)
	assert.Empty(t, f.text.paths)
	assert.Empty(t, f.history.saved)
}

func TestCheckService_ConfigError(t *testing.T) {
	svc := application.NewCheckService(application.Adapters{
		Config: stubConfig{err: errors.New("bad yaml")},
	}, nil)

	_, err := svc.Run(context.Background(), "/proj", application.CheckOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestCheckService_History(t *testing.T) {
	f := newFixture(domain.DefaultConfig(), healthyCommands())
	for i := 0; i < 2; i++ {
		_, err := f.svc.Run(context.Background(), "/proj", application.CheckOptions{})
		require.NoError(t, err)
	}

	entries, err := f.svc.History("/proj")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCheckService_ReportPath(t *testing.T) {
	f := newFixture(domain.DefaultConfig(), nil)
	p, err := f.svc.ReportPath("/proj")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/proj", "data", "env_report.txt"), p)
}

type countingHost struct{ calls int }

func (h *countingHost) Inspect(context.Context) domain.HostInfo {
	h.calls++
	return domain.HostInfo{OS: "linux", Arch: "amd64", Hostname: "build-07"}
}

func TestCheckService_InspectsHostOnce(t *testing.T) {
	for _, skip := range [][]string{nil, {"system"}} {
		cfg := domain.DefaultConfig()
		cfg.Skip = skip
		h := &countingHost{}
		svc := application.NewCheckService(application.Adapters{
			Config: stubConfig{cfg: cfg},
			Probes: check.Deps{
				Host:     h,
				Commands: stubCommands{ok: healthyCommands()},
				GPU:      stubGPU{},
				EnvFile:  stubEnv{path: new(string)},
			},
		}, nil)

		out, err := svc.Run(context.Background(), "/proj", application.CheckOptions{NoSave: true})
		require.NoError(t, err)
		assert.Equal(t, "build-07", out.Report.Hostname)
		assert.Equal(t, 1, h.calls, "skip=%v", skip)
	}
}
