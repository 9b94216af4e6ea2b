package domain

import (
	"context"
	"errors"
)

// ErrNoGPU is returned by a GPUDetector when no usable GPU is found.
var ErrNoGPU = errors.New("no gpu detected")

// CommandResult is the outcome of running a host command.
type CommandResult struct {
	OK     bool
	Output string
	Err    error
}

// CommandRunner runs host commands. Run never panics and reports a missing
// binary as a failed result rather than an error.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) CommandResult
}

// HostInfo describes the operating system of the current machine.
type HostInfo struct {
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Kernel   string `json:"kernel,omitempty"`
	Hostname string `json:"hostname,omitempty"`
}

// HostInspector reads static information about the host.
type HostInspector interface {
	Inspect(ctx context.Context) HostInfo
}

// GPU describes one detected accelerator.
type GPU struct {
	Name      string `json:"name"`
	MemoryMiB int    `json:"memory_mib,omitempty"`
}

// GPUDetector lists available GPUs.
type GPUDetector interface {
	Detect(ctx context.Context) ([]GPU, error)
}

// EnvFileReader parses KEY=VALUE files.
type EnvFileReader interface {
	Read(path string) (map[string]string, error)
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}

// ReportWriter persists a rendered report to path.
type ReportWriter interface {
	Write(path string, report *Report) error
}

// RunHistory stores and retrieves past check runs.
type RunHistory interface {
	Save(path string, entry HistoryEntry) error
	Load(path string) ([]HistoryEntry, error)
}

// GitInfo provides git repository information.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}
