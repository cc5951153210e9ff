package hfbatch

import (
	"testing"
	"time"
)

func TestOrchestratorOptions(t *testing.T) {
	t.Run("nil logger is ignored", func(t *testing.T) {
		cfg := newOrchestratorConfig()
		WithLogger(nil)(cfg)
		if cfg.logger == nil {
			t.Error("logger = nil, want nop default retained")
		}
	})

	t.Run("retry policy override", func(t *testing.T) {
		o, err := NewOrchestrator(Config{BaseDir: "models", MaxRetries: 7}, &scriptedFetcher{},
			WithRetryPolicy(RetryPolicy{MaxRetries: 1, BaseBackoff: time.Second}))
		if err != nil {
			t.Fatal(err)
		}
		if o.policy.MaxRetries != 1 || o.policy.BaseBackoff != time.Second {
			t.Errorf("policy = %+v, want explicit override to win over Config", o.policy)
		}
	})

	t.Run("manifest name override", func(t *testing.T) {
		o, err := NewOrchestrator(Config{BaseDir: "models"}, &scriptedFetcher{},
			WithManifestName("provenance.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if o.manifest.name != "provenance.txt" {
			t.Errorf("manifest name = %q, want provenance.txt", o.manifest.name)
		}
	})

	t.Run("empty manifest name is ignored", func(t *testing.T) {
		cfg := newOrchestratorConfig()
		WithManifestName("")(cfg)
		if cfg.manifestName != DefaultManifestName {
			t.Errorf("manifestName = %q, want default retained", cfg.manifestName)
		}
	})
}
