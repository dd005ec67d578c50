package resolve

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/shared/resilience"
)

// maxRemoteBlueprintSize bounds parent fetches; blueprints are small.
const maxRemoteBlueprintSize = 1 * 1024 * 1024

// Loader fetches a parent blueprint by its amends reference.
type Loader interface {
	Load(ref string) (*blueprint.Document, error)
}

// SourceLoader loads parents from the local filesystem and, when enabled,
// over HTTP(S) with retries.
type SourceLoader struct {
	root        string
	allowRemote bool
	client      *retryablehttp.Client
	breaker     *resilience.Breaker
}

// SourceLoaderOption configures a SourceLoader.
type SourceLoaderOption func(*SourceLoader)

// WithRemote enables HTTP(S) parent references with the given retry count.
func WithRemote(retries int) SourceLoaderOption {
	return func(l *SourceLoader) {
		l.allowRemote = true
		l.client.RetryMax = retries
	}
}

// NewSourceLoader creates a loader rooted at a blueprints directory.
// Remote references are rejected unless WithRemote is applied.
func NewSourceLoader(root string, opts ...SourceLoaderOption) *SourceLoader {
	client := retryablehttp.NewClient()
	client.Logger = nil

	l := &SourceLoader{
		root:    root,
		client:  client,
		breaker: resilience.New("remote-blueprints", resilience.Settings{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Loader.
func (l *SourceLoader) Load(ref string) (*blueprint.Document, error) {
	if isRemote(ref) {
		if !l.allowRemote {
			return nil, fmt.Errorf("remote parent %q rejected: remote amends are disabled", ref)
		}
		// A flaky upstream registry trips the breaker instead of holding
		// every resolution behind retries.
		return resilience.Execute(l.breaker, func() (*blueprint.Document, error) {
			return l.loadRemote(ref)
		})
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parent blueprint %q: %w", ref, err)
	}
	return blueprint.DecodeFile(path, data)
}

func (l *SourceLoader) loadRemote(ref string) (*blueprint.Document, error) {
	resp, err := l.client.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent blueprint %q: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("failed to fetch parent blueprint %q: status %d", ref, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBlueprintSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read parent blueprint %q: %w", ref, err)
	}

	format, err := remoteFormat(ref)
	if err != nil {
		return nil, err
	}
	return blueprint.Decode(data, format)
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func remoteFormat(ref string) (blueprint.Format, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid parent reference %q: %w", ref, err)
	}
	if format, err := blueprint.FormatForPath(u.Path); err == nil {
		return format, nil
	}
	// Extension-less remote references default to the canonical format.
	return blueprint.FormatYAML, nil
}
