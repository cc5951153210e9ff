package hfbatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Hub defaults.
const (
	// DefaultHubBaseURL is the HuggingFace hub endpoint.
	DefaultHubBaseURL = "https://huggingface.co"

	// DefaultRevision is the git revision fetched when none is configured.
	DefaultRevision = "main"
)

// hubFile is one entry in the hub's repository tree listing.
type hubFile struct {
	// Type is "file" or "directory".
	Type string `json:"type"`

	// Path is the file path relative to the repository root.
	Path string `json:"path"`

	// Size is the file size in bytes as reported by the hub.
	Size int64 `json:"size"`
}

// HubClient downloads repository files from a HuggingFace-style hub. It
// lists the repository tree via /api/models/<repo>/tree/<revision>,
// selects the entries whose path contains the quant pattern (plus any
// digest sidecars belonging to them), and fetches each one via
// /<repo>/resolve/<revision>/<path>.
//
// HubClient implements Fetcher; the orchestrator depends only on that
// interface.
type HubClient struct {
	// baseURL is the hub endpoint without a trailing slash.
	baseURL string

	// revision is the git revision to fetch from.
	revision string

	// token, when set, is sent as a Bearer token for gated repositories.
	token string

	// httpClient is used for all hub requests.
	httpClient HTTPClient

	// logger receives diagnostic messages.
	logger Logger
}

// Ensure HubClient implements Fetcher.
var _ Fetcher = (*HubClient)(nil)

// HubOption configures a HubClient.
type HubOption func(*HubClient)

// WithHubBaseURL overrides the hub endpoint, e.g. for a mirror or a test
// server. Trailing slashes are stripped.
func WithHubBaseURL(url string) HubOption {
	return func(c *HubClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHubRevision sets the git revision to fetch from. Default is "main".
func WithHubRevision(revision string) HubOption {
	return func(c *HubClient) {
		if revision != "" {
			c.revision = revision
		}
	}
}

// WithHubToken sets the access token used for gated repositories.
func WithHubToken(token string) HubOption {
	return func(c *HubClient) {
		c.token = token
	}
}

// WithHubHTTPClient sets a custom HTTP client for hub requests.
// If not set, http.DefaultClient is used.
func WithHubHTTPClient(client HTTPClient) HubOption {
	return func(c *HubClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithHubLogger sets a logger for diagnostic output.
func WithHubLogger(logger Logger) HubOption {
	return func(c *HubClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewHubClient creates a hub client with the given options.
func NewHubClient(opts ...HubOption) *HubClient {
	c := &HubClient{
		baseURL:    DefaultHubBaseURL,
		revision:   DefaultRevision,
		httpClient: http.DefaultClient,
		logger:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Fetcher. It returns the local paths of every file
// written into destDir, sidecars included. On error nothing is returned;
// already-written files remain on disk and are simply overwritten on
// retry.
func (c *HubClient) Fetch(ctx context.Context, repoID, pattern, destDir string) ([]string, error) {
	entries, err := c.listTree(ctx, repoID)
	if err != nil {
		return nil, err
	}

	selected := selectEntries(entries, pattern)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: pattern %q in %s", ErrNoMatchingFiles, pattern, repoID)
	}

	paths := make([]string, 0, len(selected))
	for _, entry := range selected {
		path, err := c.downloadFile(ctx, repoID, entry, destDir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// selectEntries returns the file entries whose path contains pattern,
// followed by any digest sidecars belonging to a selected file.
func selectEntries(entries []hubFile, pattern string) []hubFile {
	selected := make(map[string]bool, len(entries))
	var out []hubFile

	for _, e := range entries {
		if e.Type != "" && e.Type != "file" {
			continue
		}
		if strings.Contains(e.Path, pattern) {
			out = append(out, e)
			selected[e.Path] = true
		}
	}

	for _, e := range entries {
		if !IsSidecar(e.Path) || selected[e.Path] {
			continue
		}
		if selected[trimSidecarSuffix(e.Path)] {
			out = append(out, e)
			selected[e.Path] = true
		}
	}

	return out
}

// listTree fetches the repository file listing.
func (c *HubClient) listTree(ctx context.Context, repoID string) ([]hubFile, error) {
	url := c.baseURL + "/api/models/" + repoID + "/tree/" + c.revision

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w: %v", repoID, ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(fmt.Sprintf("listing %s", repoID), resp.StatusCode)
	}

	var entries []hubFile
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing tree for %s: %w: %v", repoID, ErrFetch, err)
	}

	return entries, nil
}

// downloadFile fetches one repository file into destDir, preserving its
// relative path. The file is written next to its final name with a .part
// suffix and renamed once complete, so an interrupted transfer never
// leaves a truncated artifact under the final name.
func (c *HubClient) downloadFile(ctx context.Context, repoID string, entry hubFile, destDir string) (string, error) {
	url := c.baseURL + "/" + repoID + "/resolve/" + c.revision + "/" + entry.Path

	resp, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w: %v", entry.Path, ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(fmt.Sprintf("fetching %s from %s", entry.Path, repoID), resp.StatusCode)
	}

	dest := filepath.Join(destDir, filepath.FromSlash(entry.Path))
	if err := ensureDir(filepath.Dir(dest)); err != nil {
		return "", err
	}

	part := dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrStorage, part, err)
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(part)
		return "", fmt.Errorf("writing %s: %w: %v", dest, ErrFetch, err)
	}

	if err := os.Rename(part, dest); err != nil {
		os.Remove(part)
		return "", fmt.Errorf("%w: renaming %s: %v", ErrStorage, part, err)
	}

	c.logger.Debug("file downloaded", "repo", repoID, "path", entry.Path, "bytes", n)
	return dest, nil
}

// get issues an authenticated GET request.
func (c *HubClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}

// classifyStatus maps an HTTP status to the retry taxonomy: 401/403 and
// 404 are permanent, everything else is transient.
func classifyStatus(op string, status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: status %d: %w", op, status, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: status %d: %w", op, status, ErrRepoNotFound)
	default:
		return fmt.Errorf("%s: status %d: %w", op, status, ErrFetch)
	}
}
