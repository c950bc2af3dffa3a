package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Masonfile is the on-disk structure of the mason.yaml settings file. Every
// field is optional; absent fields keep their defaults.
type Masonfile struct {
	Version string `yaml:"version"`
	Cache   string `yaml:"cache"`
	Jobs    int    `yaml:"jobs"`
}

// Validate checks the parsed settings file.
func (f *Masonfile) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Jobs, validation.Min(0)),
	)
}
