package ports

import "go.trai.ch/mason/internal/core/domain"

// SettingsLoader defines the interface for loading the workspace settings.
//
//go:generate mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Load discovers the settings file by walking up from cwd and returns
	// its values merged over the defaults. When no settings file exists
	// the defaults are returned with cwd as the workspace root.
	Load(cwd string) (domain.Settings, error)
}
