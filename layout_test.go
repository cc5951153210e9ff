package hfbatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPathPlannerPlan(t *testing.T) {
	planner := PathPlanner{BaseDir: "models"}
	descriptor := ModelDescriptor{Org: "acme", Model: "x", Size: "7B", RepoID: "acme/x-gguf"}

	t.Run("maps org/model/size under base dir", func(t *testing.T) {
		got, err := planner.Plan(descriptor)
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		want := filepath.Join("models", "acme", "x", "7B")
		if got != want {
			t.Errorf("Plan() = %q, want %q", got, want)
		}
	})

	t.Run("deterministic and idempotent", func(t *testing.T) {
		first, err := planner.Plan(descriptor)
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		second, err := planner.Plan(descriptor)
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		if first != second {
			t.Errorf("Plan() not stable: %q then %q", first, second)
		}
	})

	t.Run("identical triples collide intentionally", func(t *testing.T) {
		other := ModelDescriptor{Org: "acme", Model: "x", Size: "7B", RepoID: "elsewhere/x"}
		a, _ := planner.Plan(descriptor)
		b, _ := planner.Plan(other)
		if a != b {
			t.Errorf("same org/model/size planned to different dirs: %q vs %q", a, b)
		}
	})

	t.Run("distinct triples never collide", func(t *testing.T) {
		other := ModelDescriptor{Org: "acme", Model: "x", Size: "13B"}
		a, _ := planner.Plan(descriptor)
		b, _ := planner.Plan(other)
		if a == b {
			t.Errorf("distinct sizes planned to same dir %q", a)
		}
	})

	t.Run("empty fields rejected", func(t *testing.T) {
		for _, d := range []ModelDescriptor{
			{Model: "x", Size: "7B"},
			{Org: "acme", Size: "7B"},
			{Org: "acme", Model: "x"},
		} {
			if _, err := planner.Plan(d); !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("Plan(%v) error = %v, want ErrInvalidDescriptor", d, err)
			}
		}
	})
}

func TestEnsureDir(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b", "c")
		if err := ensureDir(dir); err != nil {
			t.Fatalf("ensureDir() error = %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory not created: %v", err)
		}
	})

	t.Run("existing directory is a no-op", func(t *testing.T) {
		dir := t.TempDir()
		if err := ensureDir(dir); err != nil {
			t.Errorf("ensureDir() on existing dir error = %v, want nil", err)
		}
	})

	t.Run("failure wraps ErrStorage", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "occupied")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		err := ensureDir(filepath.Join(file, "child"))
		if !errors.Is(err, ErrStorage) {
			t.Errorf("ensureDir() error = %v, want ErrStorage", err)
		}
	})
}
