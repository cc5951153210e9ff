package hfbatch

import (
	"net/http"
	"time"
)

// Retry defaults, matching the CLI flag defaults.
const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3

	// DefaultBaseBackoff is the delay before the first retry.
	DefaultBaseBackoff = 5 * time.Second
)

// Option configures an Orchestrator.
type Option func(*orchestratorConfig)

// orchestratorConfig holds configuration applied during construction.
type orchestratorConfig struct {
	// logger receives diagnostic log messages.
	logger Logger

	// policy overrides the retry policy derived from Config.
	policy *RetryPolicy

	// manifestName overrides DefaultManifestName.
	manifestName string
}

// newOrchestratorConfig returns an orchestratorConfig with default values.
func newOrchestratorConfig() *orchestratorConfig {
	return &orchestratorConfig{
		logger:       nopLogger{},
		manifestName: DefaultManifestName,
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) Option {
	return func(c *orchestratorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryPolicy replaces the retry policy derived from Config.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *orchestratorConfig) {
		c.policy = &policy
	}
}

// WithManifestName overrides the per-directory manifest filename.
func WithManifestName(name string) Option {
	return func(c *orchestratorConfig) {
		if name != "" {
			c.manifestName = name
		}
	}
}

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}
