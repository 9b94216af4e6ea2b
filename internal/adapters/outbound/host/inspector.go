package host

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/heartlink/heartlink/internal/domain"
)

const osReleasePath = "/proc/sys/kernel/osrelease"

// Inspector implements domain.HostInspector.
type Inspector struct {
	commands      domain.CommandRunner
	osReleasePath string
}

// New creates an Inspector that falls back to `uname -r` through commands
// when the kernel release cannot be read from procfs.
func New(commands domain.CommandRunner) *Inspector {
	return &Inspector{commands: commands, osReleasePath: osReleasePath}
}

// NewWithReleaseFile is like New but reads the kernel release from path.
func NewWithReleaseFile(commands domain.CommandRunner, path string) *Inspector {
	return &Inspector{commands: commands, osReleasePath: path}
}

func (i *Inspector) Inspect(ctx context.Context) domain.HostInfo {
	info := domain.HostInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}
	info.Kernel = i.kernelRelease(ctx)
	return info
}

func (i *Inspector) kernelRelease(ctx context.Context) string {
	if data, err := os.ReadFile(i.osReleasePath); err == nil {
		if rel := strings.TrimSpace(string(data)); rel != "" {
			return rel
		}
	}
	if runtime.GOOS == "windows" || i.commands == nil {
		return ""
	}
	res := i.commands.Run(ctx, "uname", "-r")
	if !res.OK {
		return ""
	}
	return strings.TrimSpace(res.Output)
}
