package check

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/heartlink/heartlink/internal/domain"
)

// Probe inspects one aspect of the host and reports a single result.
type Probe interface {
	Name() string
	Run(ctx context.Context) domain.CheckResult
}

// Runner executes probes in order. A probe that panics is reported as FAIL
// and the remaining probes still run.
type Runner struct {
	probes []Probe
	logger *slog.Logger
}

// NewRunner creates a Runner over probes. A nil logger discards output.
func NewRunner(logger *slog.Logger, probes ...Probe) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{probes: probes, logger: logger}
}

// Run executes every probe and returns results in registration order.
func (r *Runner) Run(ctx context.Context) []domain.CheckResult {
	results := make([]domain.CheckResult, 0, len(r.probes))
	for _, p := range r.probes {
		res := r.runOne(ctx, p)
		r.logger.Debug("probe finished", "probe", res.Name, "status", string(res.Status))
		results = append(results, res)
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, p Probe) (res domain.CheckResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("probe panicked", "probe", p.Name(), "panic", rec)
			res = domain.Fail(p.Name(), fmt.Sprintf("probe crashed: %v", rec))
		}
	}()
	res = p.Run(ctx)
	if res.Name == "" {
		res.Name = p.Name()
	}
	return res
}

// Deps are the host adapters the standard probes read from.
type Deps struct {
	Host     domain.HostInspector
	Commands domain.CommandRunner
	GPU      domain.GPUDetector
	EnvFile  domain.EnvFileReader
}

// CachedHost wraps h so that only the first Inspect reaches the host. The
// report header and the system probe then share one inspection.
func CachedHost(h domain.HostInspector) domain.HostInspector {
	return &cachedHost{inner: h}
}

type cachedHost struct {
	inner domain.HostInspector
	once  sync.Once
	info  domain.HostInfo
}

func (c *cachedHost) Inspect(ctx context.Context) domain.HostInfo {
	c.once.Do(func() { c.info = c.inner.Inspect(ctx) })
	return c.info
}

// Standard returns the probe sequence for cfg in the fixed run order,
// leaving out skipped probes. envPath is the resolved .env location.
func Standard(cfg domain.Config, deps Deps, envPath string) []Probe {
	interp := &Interpreter{Commands: deps.Commands, Candidates: cfg.Python, Timeout: cfg.CommandTimeout}
	all := map[string]Probe{
		domain.ProbeSystem: &SystemProbe{Host: deps.Host, Timeout: cfg.CommandTimeout},
		domain.ProbePython: &PythonProbe{Interpreter: interp},
		domain.ProbeNode: &RuntimeProbe{
			ProbeName: domain.ProbeNode,
			Commands:  deps.Commands,
			Command:   []string{"node", "--version"},
			Hint:      "Node.js not found, install the LTS release to build the frontend.",
			Timeout:   cfg.CommandTimeout,
		},
		domain.ProbeNPM: &RuntimeProbe{
			ProbeName: domain.ProbeNPM,
			Commands:  deps.Commands,
			Command:   []string{"npm", "--version"},
			Hint:      "npm not found, install it together with Node.js.",
			Timeout:   cfg.CommandTimeout,
		},
		domain.ProbePip:     &PipProbe{Interpreter: interp},
		domain.ProbeGPU:     &GPUProbe{Interpreter: interp, Detector: deps.GPU, Timeout: cfg.CommandTimeout},
		domain.ProbeEnvFile: &EnvFileProbe{Reader: deps.EnvFile, Path: envPath, RequiredKeys: cfg.RequiredEnvKeys},
	}

	probes := make([]Probe, 0, len(all))
	for _, name := range domain.ProbeOrder {
		if cfg.IsSkipped(name) {
			continue
		}
		probes = append(probes, all[name])
	}
	return probes
}
