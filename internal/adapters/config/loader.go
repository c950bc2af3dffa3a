// Package config loads workspace settings from mason.yaml.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load discovers the workspace by walking up from cwd until a directory
// holding the settings file; that directory becomes the workspace root. When
// no settings file exists anywhere above cwd, the defaults apply with cwd
// itself as the root.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	root, found, err := discover(cwd)
	if err != nil {
		return domain.Settings{}, err
	}
	if !found {
		l.logger.Debug("no settings file found, using defaults", "cwd", root)
		return domain.DefaultSettings(root), nil
	}

	path := filepath.Join(root, domain.SettingsFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is discovered from cwd
	if err != nil {
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
	}

	var file Masonfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to parse settings file"), "path", path)
	}
	if err := file.Validate(); err != nil {
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "invalid settings file"), "path", path)
	}

	settings := domain.DefaultSettings(root)
	if file.Version != "" {
		settings.Version = file.Version
	}
	if file.Cache != "" {
		settings.CacheDir = file.Cache
	}
	if file.Jobs > 0 {
		settings.Jobs = file.Jobs
	}

	l.logger.Debug("loaded workspace settings", "root", root, "version", settings.Version)
	return settings, nil
}

// discover walks up from dir looking for the settings file. It returns the
// absolute directory that holds it, or the absolute starting directory when
// nothing was found.
func discover(dir string) (string, bool, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "dir", dir)
	}

	current := start
	for {
		candidate := filepath.Join(current, domain.SettingsFileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return current, true, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return start, false, nil
		}
		current = parent
	}
}

var _ ports.SettingsLoader = (*Loader)(nil)
