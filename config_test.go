package hfbatch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDescriptors(t *testing.T) {
	t.Run("valid JSON preserves order", func(t *testing.T) {
		path := writeConfig(t, "models.json", `[
			{"org": "acme", "model": "x", "size": "7B", "repo_id": "acme/x-gguf", "quant": ["Q4_K_M", "Q8_0"]},
			{"org": "beta", "model": "y", "size": "13B", "repo_id": "beta/y-gguf", "quant": ["Q5_K_S"]}
		]`)

		descriptors, err := LoadDescriptors(path)
		if err != nil {
			t.Fatalf("LoadDescriptors() error = %v", err)
		}
		if len(descriptors) != 2 {
			t.Fatalf("len = %d, want 2", len(descriptors))
		}
		if descriptors[0].Org != "acme" || descriptors[1].Org != "beta" {
			t.Errorf("order not preserved: %v", descriptors)
		}
		if got := descriptors[0].Quant; len(got) != 2 || got[0] != "Q4_K_M" || got[1] != "Q8_0" {
			t.Errorf("quant order not preserved: %v", got)
		}
	})

	t.Run("valid YAML by extension", func(t *testing.T) {
		path := writeConfig(t, "models.yaml", `
- org: acme
  model: x
  size: 7B
  repo_id: acme/x-gguf
  quant: [Q4_K_M]
`)

		descriptors, err := LoadDescriptors(path)
		if err != nil {
			t.Fatalf("LoadDescriptors() error = %v", err)
		}
		if len(descriptors) != 1 || descriptors[0].RepoID != "acme/x-gguf" {
			t.Errorf("unexpected descriptors: %v", descriptors)
		}
	})

	t.Run("collects every problem at once", func(t *testing.T) {
		path := writeConfig(t, "models.json", `[
			{"org": "", "model": "x", "size": "7B", "repo_id": "", "quant": ["Q4_K_M"]},
			{"org": "beta", "model": "y", "size": "13B", "repo_id": "beta/y", "quant": []}
		]`)

		_, err := LoadDescriptors(path)
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("LoadDescriptors() error = %v, want *ConfigError", err)
		}

		wantFragments := []string{
			"models[0]: org is required",
			"models[0]: repo_id is required",
			"models[1]: quant must list at least one variant",
		}
		for _, frag := range wantFragments {
			found := false
			for _, p := range ce.Problems {
				if p == frag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Problems missing %q; got %v", frag, ce.Problems)
			}
		}
	})

	t.Run("empty quant element is invalid", func(t *testing.T) {
		path := writeConfig(t, "models.json",
			`[{"org": "acme", "model": "x", "size": "7B", "repo_id": "acme/x", "quant": ["Q4_K_M", " "]}]`)

		_, err := LoadDescriptors(path)
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("LoadDescriptors() error = %v, want ErrInvalidDescriptor", err)
		}
	})

	t.Run("empty list is invalid", func(t *testing.T) {
		path := writeConfig(t, "models.json", `[]`)

		_, err := LoadDescriptors(path)
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("LoadDescriptors() error = %v, want ErrInvalidDescriptor", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDescriptors(filepath.Join(t.TempDir(), "absent.json"))
		if err == nil {
			t.Error("LoadDescriptors() error = nil, want read error")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeConfig(t, "models.json", `[{`)

		_, err := LoadDescriptors(path)
		if err == nil || !strings.Contains(err.Error(), "parsing config") {
			t.Errorf("LoadDescriptors() error = %v, want parse error", err)
		}
	})
}

func TestValidateDescriptors(t *testing.T) {
	t.Run("valid list returns nil", func(t *testing.T) {
		err := ValidateDescriptors([]ModelDescriptor{
			{Org: "acme", Model: "x", Size: "7B", RepoID: "acme/x", Quant: []string{"Q4_K_M"}},
		})
		if err != nil {
			t.Errorf("ValidateDescriptors() error = %v, want nil", err)
		}
	})

	t.Run("duplicates are allowed", func(t *testing.T) {
		d := ModelDescriptor{Org: "acme", Model: "x", Size: "7B", RepoID: "acme/x", Quant: []string{"Q4_K_M"}}
		if err := ValidateDescriptors([]ModelDescriptor{d, d}); err != nil {
			t.Errorf("ValidateDescriptors() error = %v, want nil", err)
		}
	})
}
