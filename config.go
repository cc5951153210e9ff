package hfbatch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDescriptors reads an ordered descriptor list from path. The file is
// a JSON array of descriptor objects; files with a .yaml or .yml extension
// are decoded from YAML into the same schema.
//
// Every descriptor is validated and all problems are collected into a
// single *ConfigError, so a bad config reports everything wrong at once.
// Order is preserved exactly as written; duplicates are allowed and simply
// target the same directory.
func LoadDescriptors(path string) ([]ModelDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var descriptors []ModelDescriptor
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &descriptors); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &descriptors); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := ValidateDescriptors(descriptors); err != nil {
		return nil, err
	}

	return descriptors, nil
}

// ValidateDescriptors checks every descriptor and returns a *ConfigError
// enumerating all missing or invalid fields, or nil if the list is valid.
// An empty list is invalid; a batch with nothing to do is a config mistake.
func ValidateDescriptors(descriptors []ModelDescriptor) error {
	var problems []string

	if len(descriptors) == 0 {
		problems = append(problems, "no model descriptors defined")
	}

	for i, d := range descriptors {
		problems = append(problems, d.validate(fmt.Sprintf("models[%d]", i))...)
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// validate returns one problem message per missing or invalid field,
// prefixed with the descriptor's position in the config.
func (d ModelDescriptor) validate(prefix string) []string {
	var problems []string

	required := []struct {
		name  string
		value string
	}{
		{"org", d.Org},
		{"model", d.Model},
		{"size", d.Size},
		{"repo_id", d.RepoID},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, fmt.Sprintf("%s: %s is required", prefix, f.name))
		}
	}

	if len(d.Quant) == 0 {
		problems = append(problems, fmt.Sprintf("%s: quant must list at least one variant", prefix))
	}
	for j, q := range d.Quant {
		if strings.TrimSpace(q) == "" {
			problems = append(problems, fmt.Sprintf("%s: quant[%d] is empty", prefix, j))
		}
	}

	return problems
}
