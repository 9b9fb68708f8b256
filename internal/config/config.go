// Package config loads optional per-project defaults for scriptrun's
// CLI flags from a `.scriptrun.yaml` file, read before the working
// directory change described in spec.md §6.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// File is the shape of `.scriptrun.yaml`. Every field is a pointer so
// the loader can tell "absent" apart from "explicitly false", letting
// the CLI apply a flag's value only when the user didn't pass it.
type File struct {
	Doc          *bool   `yaml:"doc"`
	ASTFile      *bool   `yaml:"ast_file"`
	ErrorLogFile *bool   `yaml:"error_log_file"`
	DecodeTime   *bool   `yaml:"decode_time"`
	DefaultDir   *string `yaml:"default_dir"`
	Interactive  *bool   `yaml:"interactive_mode"`
}

// Load reads path if present; a missing file is not an error, since
// `.scriptrun.yaml` is entirely optional.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// BoolOr returns *p if p is non-nil, otherwise fallback.
func BoolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

// StringOr returns *p if p is non-nil, otherwise fallback.
func StringOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
