package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/heartlink/heartlink/internal/domain"
)

// SystemProbe reports the operating system. It never fails.
type SystemProbe struct {
	Host    domain.HostInspector
	Timeout time.Duration
}

func (p *SystemProbe) Name() string { return domain.ProbeSystem }

func (p *SystemProbe) Run(ctx context.Context) domain.CheckResult {
	ctx, cancel := withTimeout(ctx, p.Timeout)
	defer cancel()

	info := p.Host.Inspect(ctx)
	parts := []string{info.OS}
	if info.Kernel != "" {
		parts = append(parts, info.Kernel)
	}
	parts = append(parts, info.Arch)
	msg := strings.Join(parts, "-")
	if info.Hostname != "" {
		msg += fmt.Sprintf(" (%s)", info.Hostname)
	}
	return domain.OK(p.Name(), msg)
}

// RuntimeProbe checks an optional runtime by asking for its version.
// A missing runtime is a warning.
type RuntimeProbe struct {
	ProbeName string
	Commands  domain.CommandRunner
	Command   []string
	Hint      string
	Timeout   time.Duration
}

func (p *RuntimeProbe) Name() string { return p.ProbeName }

func (p *RuntimeProbe) Run(ctx context.Context) domain.CheckResult {
	res := run(ctx, p.Commands, p.Timeout, p.Command...)
	if res.OK {
		return domain.OK(p.Name(), firstLine(res.Output))
	}
	return domain.Warn(p.Name(), p.Hint)
}

// Interpreter resolves the Python binary once per run so that the python,
// pip and gpu probes all look at the same interpreter.
type Interpreter struct {
	Commands   domain.CommandRunner
	Candidates []string
	Timeout    time.Duration

	once    sync.Once
	bin     string
	version string
}

// Resolve returns the first candidate that answers --version, or ok=false
// when none does.
func (i *Interpreter) Resolve(ctx context.Context) (bin, version string, ok bool) {
	i.once.Do(func() {
		for _, c := range i.Candidates {
			res := run(ctx, i.Commands, i.Timeout, c, "--version")
			if res.OK {
				i.bin, i.version = c, firstLine(res.Output)
				return
			}
		}
	})
	return i.bin, i.version, i.bin != ""
}

// PythonProbe checks for a Python interpreter, trying each candidate in turn.
// The backend cannot run without one, so a miss is a failure.
type PythonProbe struct {
	Interpreter *Interpreter
}

func (p *PythonProbe) Name() string { return domain.ProbePython }

func (p *PythonProbe) Run(ctx context.Context) domain.CheckResult {
	if bin, version, ok := p.Interpreter.Resolve(ctx); ok {
		return domain.OK(p.Name(), fmt.Sprintf("%s (%s)", version, bin))
	}
	return domain.Fail(p.Name(),
		fmt.Sprintf("no Python interpreter found (tried %s), install Python 3.", strings.Join(p.Interpreter.Candidates, ", ")))
}

// PipProbe checks that pip is usable through the resolved interpreter.
type PipProbe struct {
	Interpreter *Interpreter
}

func (p *PipProbe) Name() string { return domain.ProbePip }

func (p *PipProbe) Run(ctx context.Context) domain.CheckResult {
	if bin, _, ok := p.Interpreter.Resolve(ctx); ok {
		res := run(ctx, p.Interpreter.Commands, p.Interpreter.Timeout, bin, "-m", "pip", "--version")
		if res.OK {
			return domain.OK(p.Name(), firstLine(res.Output))
		}
	}
	return domain.Fail(p.Name(), "pip not found, repair Python with the official installer.")
}

// TorchScript reports CUDA availability as seen by PyTorch. It prints one
// line: "no-torch", "no-cuda", "cuda:<device>" or "error:<text>".
const TorchScript = `import importlib.util, sys
if importlib.util.find_spec("torch") is None:
    print("no-torch")
    sys.exit(0)
try:
    import torch
    if torch.cuda.is_available():
        print("cuda:" + torch.cuda.get_device_name(0))
    else:
        print("no-cuda")
except Exception as exc:
    print("error:" + str(exc))
`

// GPUProbe reports available GPUs. GPUs are optional. PyTorch is asked
// first when it is installed; otherwise the Detector is used.
type GPUProbe struct {
	Interpreter *Interpreter
	Detector    domain.GPUDetector
	Timeout     time.Duration
}

func (p *GPUProbe) Name() string { return domain.ProbeGPU }

func (p *GPUProbe) Run(ctx context.Context) domain.CheckResult {
	if res, ok := p.torchStatus(ctx); ok {
		return res
	}

	ctx, cancel := withTimeout(ctx, p.Timeout)
	defer cancel()

	gpus, err := p.Detector.Detect(ctx)
	if err != nil || len(gpus) == 0 {
		if err != nil && !errors.Is(err, domain.ErrNoGPU) {
			return domain.Warn(p.Name(), fmt.Sprintf("GPU detection failed: %v", err))
		}
		return domain.Warn(p.Name(), "no GPU detected, install the NVIDIA driver if GPU inference is needed.")
	}

	names := make([]string, 0, len(gpus))
	for _, g := range gpus {
		if g.MemoryMiB > 0 {
			names = append(names, fmt.Sprintf("%s (%d MiB)", g.Name, g.MemoryMiB))
		} else {
			names = append(names, g.Name)
		}
	}
	return domain.OK(p.Name(), "detected GPU: "+strings.Join(names, ", "))
}

// torchStatus returns ok=false when PyTorch is not installed or could not be
// asked, so the caller falls back to the Detector.
func (p *GPUProbe) torchStatus(ctx context.Context) (domain.CheckResult, bool) {
	if p.Interpreter == nil {
		return domain.CheckResult{}, false
	}
	bin, _, ok := p.Interpreter.Resolve(ctx)
	if !ok {
		return domain.CheckResult{}, false
	}
	res := run(ctx, p.Interpreter.Commands, p.Timeout, bin, "-c", TorchScript)
	if !res.OK {
		return domain.CheckResult{}, false
	}

	out := firstLine(res.Output)
	switch {
	case strings.HasPrefix(out, "cuda:"):
		return domain.OK(p.Name(), "detected GPU via PyTorch: "+strings.TrimSpace(strings.TrimPrefix(out, "cuda:"))), true
	case out == "no-cuda":
		return domain.Warn(p.Name(), "PyTorch found but CUDA is unavailable, check the driver or CUDA version."), true
	case strings.HasPrefix(out, "error:"):
		return domain.Warn(p.Name(), "PyTorch found but GPU information is unavailable: "+strings.TrimSpace(strings.TrimPrefix(out, "error:"))), true
	}
	return domain.CheckResult{}, false
}

// EnvFileProbe checks that the .env file exists and defines the required keys
// with non-empty values.
type EnvFileProbe struct {
	Reader       domain.EnvFileReader
	Path         string
	RequiredKeys []string
}

func (p *EnvFileProbe) Name() string { return domain.ProbeEnvFile }

func (p *EnvFileProbe) Run(_ context.Context) domain.CheckResult {
	values, err := p.Reader.Read(p.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Warn(p.Name(), ".env not found, copy .env.example and fill in the keys.")
		}
		return domain.Warn(p.Name(), fmt.Sprintf("reading .env failed: %v", err))
	}

	var missing []string
	for _, key := range p.RequiredKeys {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return domain.Warn(p.Name(),
			fmt.Sprintf("%s missing or empty, update .env.", strings.Join(missing, ", ")))
	}
	if len(p.RequiredKeys) == 0 {
		return domain.OK(p.Name(), ".env found.")
	}
	return domain.OK(p.Name(), fmt.Sprintf("found %s.", strings.Join(p.RequiredKeys, ", ")))
}

func run(ctx context.Context, commands domain.CommandRunner, timeout time.Duration, argv ...string) domain.CommandResult {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return commands.Run(ctx, argv[0], argv[1:]...)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
