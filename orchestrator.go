package hfbatch

import (
	"context"
	"errors"
	"os"
	"time"
)

// Orchestrator drives the per-descriptor, per-quant download loop. For
// each (descriptor, quant) pair it resolves the destination via the
// PathPlanner, runs fetch attempts governed by the RetryPolicy, verifies
// sidecar digests, and appends a manifest entry. Per-artifact failures
// never abort the batch; only context cancellation stops a run early.
type Orchestrator struct {
	// cfg holds the batch configuration.
	cfg Config

	// fetcher is the hub-fetch collaborator.
	fetcher Fetcher

	// planner maps descriptors onto the local layout.
	planner PathPlanner

	// policy governs retry decisions and backoff delays.
	policy RetryPolicy

	// manifest records one entry per terminal download result.
	manifest *ManifestWriter

	// logger receives diagnostic messages.
	logger Logger
}

// NewOrchestrator creates an orchestrator over the given fetcher.
// Config.BaseDir is required; MaxRetries and BaseBackoff fall back to
// DefaultMaxRetries and DefaultBaseBackoff when zero.
func NewOrchestrator(cfg Config, fetcher Fetcher, opts ...Option) (*Orchestrator, error) {
	if cfg.BaseDir == "" {
		return nil, errors.New("hfbatch: BaseDir is required")
	}
	if fetcher == nil {
		return nil, errors.New("hfbatch: a Fetcher is required")
	}

	ocfg := newOrchestratorConfig()
	for _, opt := range opts {
		opt(ocfg)
	}

	policy := RetryPolicy{MaxRetries: cfg.MaxRetries, BaseBackoff: cfg.BaseBackoff}
	if policy.MaxRetries == 0 {
		policy.MaxRetries = DefaultMaxRetries
	} else if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.BaseBackoff <= 0 {
		policy.BaseBackoff = DefaultBaseBackoff
	}
	if ocfg.policy != nil {
		policy = *ocfg.policy
	}

	planner := PathPlanner{BaseDir: cfg.BaseDir}
	manifest := NewManifestWriter(planner)
	manifest.name = ocfg.manifestName

	return &Orchestrator{
		cfg:      cfg,
		fetcher:  fetcher,
		planner:  planner,
		policy:   policy,
		manifest: manifest,
		logger:   ocfg.logger,
	}, nil
}

// Run processes descriptors strictly in the given order, and quant
// variants strictly in each descriptor's order. It returns the batch
// summary together with ctx's error if the run was cancelled; per-artifact
// failures are reflected in the summary, not in the returned error.
func (o *Orchestrator) Run(ctx context.Context, descriptors []ModelDescriptor) (BatchSummary, error) {
	var summary BatchSummary
	start := time.Now()

	for _, d := range descriptors {
		dir, err := o.planner.Plan(d)
		if err != nil {
			// Loading should have rejected this descriptor already.
			o.logger.Error("skipping invalid descriptor", "descriptor", d.String(), "error", err)
			for _, q := range d.Quant {
				summary.add(DownloadResult{Descriptor: d, Quant: q, Err: err})
			}
			continue
		}

		if err := ensureDir(dir); err != nil {
			// Storage failure covers every quant of this model; the batch
			// continues with the next descriptor.
			o.logger.Error("cannot create model directory", "dir", dir, "error", err)
			for _, q := range d.Quant {
				summary.add(DownloadResult{Descriptor: d, Quant: q, LocalDir: dir, Err: err})
			}
			continue
		}

		for i, q := range d.Quant {
			result := o.downloadOne(ctx, d, q, dir)
			recErr := o.record(result)
			summary.add(result)

			if ctx.Err() != nil {
				o.logger.Warn("batch cancelled",
					"completed", len(summary.Results), "elapsed", time.Since(start))
				return summary, ctx.Err()
			}

			if errors.Is(recErr, ErrStorage) {
				// An unwritable manifest means no provenance can be kept for
				// this model; its remaining quants are not downloaded.
				for _, rest := range d.Quant[i+1:] {
					summary.add(DownloadResult{Descriptor: d, Quant: rest, LocalDir: dir, Err: recErr})
				}
				break
			}
		}
	}

	o.logger.Info("batch complete",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"total_bytes", summary.TotalBytes,
		"total_duration", summary.TotalDuration,
		"elapsed", time.Since(start))

	return summary, nil
}

// downloadOne runs the retry state machine for a single (descriptor,
// quant) pair and returns its terminal result. States: an attempt either
// succeeds, enters a backoff wait before the next attempt, or exhausts
// the policy. A checksum mismatch after a successful transfer is recorded
// and logged but never re-fetched.
func (o *Orchestrator) downloadOne(ctx context.Context, d ModelDescriptor, quant, dir string) DownloadResult {
	result := DownloadResult{Descriptor: d, Quant: quant, LocalDir: dir}
	start := time.Now()
	retry := 0

	for {
		o.logger.Info("downloading",
			"repo", d.RepoID, "quant", quant, "dest", dir, "attempt", retry+1)

		files, err := o.fetcher.Fetch(ctx, d.RepoID, quant, dir)
		if err == nil {
			result.Files = files
			result.SizeBytes = totalSize(files)
			result.Duration = time.Since(start)
			result.Checksum = o.verify(files)

			if result.Checksum == ChecksumMismatch {
				o.logger.Error("checksum mismatch",
					"repo", d.RepoID, "quant", quant, "dest", dir)
			} else {
				o.logger.Info("download complete",
					"repo", d.RepoID, "quant", quant,
					"files", len(files), "bytes", result.SizeBytes,
					"duration", result.Duration, "checksum", result.Checksum.String())
			}
			return result
		}

		if ctx.Err() != nil {
			result.Err = ctx.Err()
			result.Duration = time.Since(start)
			o.logger.Error("download aborted", "repo", d.RepoID, "quant", quant, "error", err)
			return result
		}

		if IsPermanent(err) {
			result.Err = err
			result.Duration = time.Since(start)
			o.logger.Error("permanent failure, not retrying",
				"repo", d.RepoID, "quant", quant, "error", err)
			return result
		}

		retry++
		if !o.policy.ShouldRetry(retry) {
			result.Err = err
			result.Duration = time.Since(start)
			o.logger.Error("retries exhausted",
				"repo", d.RepoID, "quant", quant, "attempts", retry, "error", err)
			return result
		}

		delay := o.policy.Delay(retry)
		o.logger.Warn("transient failure, retrying",
			"repo", d.RepoID, "quant", quant, "retry", retry, "delay", delay, "error", err)

		if werr := o.policy.Wait(ctx, retry); werr != nil {
			result.Err = werr
			result.Duration = time.Since(start)
			return result
		}
	}
}

// verify runs sidecar verification over the downloaded files. A read
// failure during verification is logged and reported as absent; the
// transfer itself already succeeded.
func (o *Orchestrator) verify(files []string) ChecksumStatus {
	status, err := VerifyFiles(files)
	if err != nil {
		o.logger.Error("checksum verification failed to read artifact", "error", err)
		return ChecksumAbsent
	}
	return status
}

// record writes the manifest entry for a terminal result. A write failure
// is logged and returned; Run treats storage failures as fatal for the
// model's remaining quants.
func (o *Orchestrator) record(r DownloadResult) error {
	if err := o.manifest.Record(r); err != nil {
		o.logger.Error("manifest write failed",
			"descriptor", r.Descriptor.String(), "quant", r.Quant, "error", err)
		return err
	}
	return nil
}

// totalSize sums the on-disk sizes of the given files. Files that cannot
// be statted contribute zero.
func totalSize(paths []string) int64 {
	var total int64
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			total += info.Size()
		}
	}
	return total
}
