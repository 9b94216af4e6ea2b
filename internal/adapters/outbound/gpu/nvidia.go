package gpu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/heartlink/heartlink/internal/domain"
)

// NvidiaSMI implements domain.GPUDetector by querying nvidia-smi.
type NvidiaSMI struct {
	commands domain.CommandRunner
}

func New(commands domain.CommandRunner) *NvidiaSMI {
	return &NvidiaSMI{commands: commands}
}

// Detect returns one entry per GPU reported by nvidia-smi. Older drivers
// without --query-gpu support fall back to a bare nvidia-smi call.
func (n *NvidiaSMI) Detect(ctx context.Context) ([]domain.GPU, error) {
	res := n.commands.Run(ctx, "nvidia-smi", "--query-gpu=name,memory.total", "--format=csv,noheader,nounits")
	if res.OK {
		gpus := parseQuery(res.Output)
		if len(gpus) > 0 {
			return gpus, nil
		}
	}

	bare := n.commands.Run(ctx, "nvidia-smi", "-L")
	if !bare.OK {
		if bare.Err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("running nvidia-smi: %w", bare.Err)
		}
		return nil, domain.ErrNoGPU
	}

	gpus := parseList(bare.Output)
	if len(gpus) == 0 {
		return nil, domain.ErrNoGPU
	}
	return gpus, nil
}

// parseQuery reads "NVIDIA GeForce RTX 4090, 24564" lines.
func parseQuery(out string) []domain.GPU {
	var gpus []domain.GPU
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, mem, _ := strings.Cut(line, ",")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		g := domain.GPU{Name: name}
		mem = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(mem), "MiB"))
		if v, err := strconv.Atoi(mem); err == nil {
			g.MemoryMiB = v
		}
		gpus = append(gpus, g)
	}
	return gpus
}

// parseList reads "GPU 0: Tesla T4 (UUID: GPU-...)" lines.
func parseList(out string) []domain.GPU {
	var gpus []domain.GPU
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "GPU ") {
			continue
		}
		_, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name := strings.TrimSpace(rest)
		if i := strings.Index(name, " (UUID"); i >= 0 {
			name = name[:i]
		}
		if name != "" {
			gpus = append(gpus, domain.GPU{Name: name})
		}
	}
	return gpus
}
