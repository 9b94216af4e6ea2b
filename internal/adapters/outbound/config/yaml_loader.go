package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/heartlink/heartlink/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	fileName     = ".heartlink.yaml"
	userFileName = "heartlink/config.yaml"
)

// YAMLLoader implements domain.ConfigLoader by reading .heartlink.yaml from the
// project, falling back to the user's XDG config directory.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the project config, then the user config. Returns DefaultConfig
// if neither exists. Keys absent from the file keep their defaults.
func (l *YAMLLoader) Load(projectPath string) (domain.Config, error) {
	path, err := l.locate(projectPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}

	return cfg, nil
}

// Path returns the config file Load would read, or os.ErrNotExist.
func (l *YAMLLoader) Path(projectPath string) (string, error) {
	return l.locate(projectPath)
}

func (l *YAMLLoader) locate(projectPath string) (string, error) {
	project := filepath.Join(projectPath, fileName)
	if _, err := os.Stat(project); err == nil {
		return project, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", project, err)
	}

	if user, err := xdg.SearchConfigFile(userFileName); err == nil {
		return user, nil
	}
	return "", os.ErrNotExist
}
