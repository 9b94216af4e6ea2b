package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/heartlink/heartlink/internal/domain"
	"github.com/heartlink/heartlink/internal/domain/check"
	hlog "github.com/heartlink/heartlink/internal/log"
)

// Adapters bundles the outbound ports the check pipeline depends on.
type Adapters struct {
	Config   domain.ConfigLoader
	Probes   check.Deps
	Text     domain.ReportWriter
	Markdown domain.ReportWriter
	History  domain.RunHistory
	Git      domain.GitInfo
}

// CheckOptions tunes a single run.
type CheckOptions struct {
	// OutputPath overrides the configured report path when set.
	OutputPath string
	// Markdown also writes a Markdown report next to the text report.
	Markdown bool
	// NoSave skips writing the report and the history entry.
	NoSave bool
}

// CheckOutcome is everything a caller needs to present one run.
type CheckOutcome struct {
	Report       *domain.Report
	Config       domain.Config
	ReportPath   string
	MarkdownPath string
	// SaveErr is set when the report could not be written. The run itself
	// still succeeded.
	SaveErr error
}

// CheckService orchestrates the environment check:
// load config → run probes → aggregate → persist report → record history.
type CheckService struct {
	adapters Adapters
	logger   *slog.Logger
	now      func() time.Time
}

func NewCheckService(adapters Adapters, logger *slog.Logger) *CheckService {
	if logger == nil {
		logger = hlog.Discard()
	}
	return &CheckService{adapters: adapters, logger: logger, now: time.Now}
}

// WithClock replaces the time source used for report timestamps.
func (s *CheckService) WithClock(now func() time.Time) *CheckService {
	s.now = now
	return s
}

// Run performs one full check of the environment rooted at projectPath.
// Only configuration errors are fatal; failing probes and unwritable report
// files are reported through the outcome.
func (s *CheckService) Run(ctx context.Context, projectPath string, opts CheckOptions) (*CheckOutcome, error) {
	cfg, err := s.adapters.Config.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	envPath := resolve(projectPath, cfg.EnvFile)
	deps := s.adapters.Probes
	if deps.Host != nil {
		deps.Host = check.CachedHost(deps.Host)
	}
	probes := check.Standard(cfg, deps, envPath)
	s.logger.Debug("running probes", "count", len(probes), "env_file", envPath)

	results := check.NewRunner(s.logger, probes...).Run(ctx)
	report := domain.NewReport(results, s.now())
	if deps.Host != nil {
		report.Hostname = s.hostname(ctx, deps.Host, cfg.CommandTimeout)
	}
	report.CommitHash = s.commitHash(projectPath)

	out := &CheckOutcome{Report: report, Config: cfg}
	if opts.NoSave {
		return out, nil
	}

	out.ReportPath = resolve(projectPath, cfg.ReportPath)
	if opts.OutputPath != "" {
		out.ReportPath = resolve(projectPath, opts.OutputPath)
	}
	var saveErrs []error
	if err := s.adapters.Text.Write(out.ReportPath, report); err != nil {
		s.logger.Warn("saving report failed", "path", out.ReportPath, "error", err)
		saveErrs = append(saveErrs, err)
	}
	if opts.Markdown && s.adapters.Markdown != nil {
		out.MarkdownPath = markdownPath(out.ReportPath)
		if err := s.adapters.Markdown.Write(out.MarkdownPath, report); err != nil {
			s.logger.Warn("saving markdown report failed", "path", out.MarkdownPath, "error", err)
			saveErrs = append(saveErrs, err)
		}
	}
	out.SaveErr = errors.Join(saveErrs...)

	s.recordHistory(projectPath, cfg, report)
	return out, nil
}

// History returns the recorded runs for projectPath, oldest first.
func (s *CheckService) History(projectPath string) ([]domain.HistoryEntry, error) {
	cfg, err := s.adapters.Config.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if s.adapters.History == nil || cfg.HistoryPath == "" {
		return nil, nil
	}
	return s.adapters.History.Load(resolve(projectPath, cfg.HistoryPath))
}

// ReportPath returns where Run saves the text report by default.
func (s *CheckService) ReportPath(projectPath string) (string, error) {
	cfg, err := s.adapters.Config.Load(projectPath)
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	return resolve(projectPath, cfg.ReportPath), nil
}

func (s *CheckService) hostname(ctx context.Context, h domain.HostInspector, timeout time.Duration) string {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return h.Inspect(ctx).Hostname
}

func (s *CheckService) commitHash(projectPath string) string {
	git := s.adapters.Git
	if git == nil || !git.IsGitRepo(projectPath) {
		return ""
	}
	hash, err := git.CommitHash(projectPath)
	if err != nil {
		s.logger.Debug("reading commit hash failed", "error", err)
		return ""
	}
	return hash
}

func (s *CheckService) recordHistory(projectPath string, cfg domain.Config, report *domain.Report) {
	if s.adapters.History == nil || cfg.HistoryPath == "" {
		return
	}
	path := resolve(projectPath, cfg.HistoryPath)
	if err := s.adapters.History.Save(path, domain.NewHistoryEntry(report)); err != nil {
		s.logger.Warn("saving history failed", "path", path, "error", err)
	}
}

func resolve(projectPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if projectPath == "" {
		projectPath = "."
	}
	return filepath.Join(projectPath, p)
}

func markdownPath(reportPath string) string {
	return strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".md"
}
