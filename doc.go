// Package hfbatch batch-downloads model artifact sets from a model hub into
// a deterministic local directory layout, verifying integrity against
// sidecar digest files and recording provenance in per-directory manifests.
//
// The package serves two primary use cases:
//
//  1. Programmatic API - Applications construct an Orchestrator with
//     NewOrchestrator and drive batches with Run, supplying any Fetcher
//     implementation (NewHubClient provides one for HuggingFace-style hubs).
//
//  2. CLI via NewCommand - The cmd/hf-batch-downloader binary wraps the
//     returned Cobra command; parent CLI tools can embed it the same way.
//
// # Directory Layout
//
// Every descriptor maps to exactly one directory:
//
//	<base-dir>/<org>/<model>/<size>/
//
// containing the downloaded artifact files, any digest sidecars present in
// the remote repository, and an append-only manifest.txt recording one line
// per (descriptor, quant) download outcome.
//
// # Failure Model
//
// Configuration problems abort the batch before any download starts.
// Everything after that is fail-soft: transient fetch errors are retried
// with exponential backoff, permanent errors (missing or gated
// repositories) skip the remaining retries for that quant only, and
// checksum mismatches are logged and recorded without aborting the run. A
// descriptor never disappears silently; each quant yields either a success
// or a failure manifest line.
//
// # Concurrency
//
// Batches are processed sequentially, one (descriptor, quant) pair in
// flight at a time. The only suspension points are the network fetch and
// the backoff wait, both cancellable through the context passed to Run.
// Manifest files are guarded by a cross-process file lock so concurrent
// runs targeting the same directory cannot interleave partial lines.
package hfbatch
