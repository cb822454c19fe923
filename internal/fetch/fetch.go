// Package fetch resolves bottle manifests and tool definitions from a local
// override, the bespoke bottles directory, or the curated repository over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
)

// ErrNotFound reports that a bottle or tool definition does not exist.
var ErrNotFound = errors.New(messages.FetchNotFound)

// Kinds of documents a NotFoundError can refer to.
const (
	KindBottle = "bottle"
	KindTool   = "tool"
)

// NotFoundError names the missing document. It matches ErrNotFound.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(messages.FetchNotFoundFmt, e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Curated bottles published in the bottle repository.
var Curated = []string{"stable", "edge", "minimal"}

// manifestExtensions are checked in order when loading a bespoke bottle.
var manifestExtensions = []string{".json", ".yaml", ".yml"}

var httpClient = &http.Client{Timeout: 30 * time.Second}
var retryDelay = 250 * time.Millisecond

const (
	fetchRetryCount  = 1
	maxDocumentBytes = int64(4 * 1024 * 1024)
)

// Source resolves manifests and tool definitions.
type Source struct {
	// BaseURL is the curated repository root, e.g. a raw.githubusercontent.com URL.
	BaseURL string
	// BottlesDir holds bespoke bottles as <name>/manifest.{json,yaml,yml}.
	BottlesDir string
	// ToolsDir holds local tool definitions as <name>.json that shadow curated ones.
	ToolsDir string
	// Override, when set, is loaded instead of resolving by name.
	Override  string
	NoNetwork bool
}

// Manifest resolves name from the override path, then the bespoke
// directory, then the curated repository.
func (s *Source) Manifest(ctx context.Context, name string) (*manifest.Manifest, error) {
	if s.Override != "" {
		return manifest.Load(s.Override)
	}
	if !state.ValidName(name) {
		return nil, fmt.Errorf(messages.FetchInvalidNameFmt, name)
	}
	if path, ok := s.BespokePath(name); ok {
		return manifest.Load(path)
	}
	if s.NoNetwork {
		return nil, fmt.Errorf(messages.FetchNoNetworkFmt, KindBottle, name)
	}
	url := fmt.Sprintf("%s/bottles/%s/manifest.json", s.BaseURL, name)
	data, err := get(ctx, url)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Kind: KindBottle, Name: name}
	}
	if err != nil {
		return nil, err
	}
	return manifest.Parse(data, manifest.FormatJSON, url)
}

// Curated fetches name from the curated repository only, ignoring bespoke bottles.
func (s *Source) Curated(ctx context.Context, name string) (*manifest.Manifest, error) {
	remote := *s
	remote.Override = ""
	remote.BottlesDir = ""
	return remote.Manifest(ctx, name)
}

// ToolDefinition resolves name from ToolsDir, then the curated repository.
func (s *Source) ToolDefinition(ctx context.Context, name string) (*manifest.ToolDefinition, error) {
	if !state.ValidName(name) {
		return nil, fmt.Errorf(messages.FetchInvalidNameFmt, name)
	}
	if s.ToolsDir != "" {
		path := filepath.Join(s.ToolsDir, name+".json")
		data, err := os.ReadFile(path)
		if err == nil {
			return manifest.ParseToolDefinition(data, path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf(messages.FetchReadFmt, path, err)
		}
	}
	if s.NoNetwork {
		return nil, fmt.Errorf(messages.FetchNoNetworkFmt, KindTool, name)
	}
	url := fmt.Sprintf("%s/tools/%s.json", s.BaseURL, name)
	data, err := get(ctx, url)
	if errors.Is(err, ErrNotFound) {
		return nil, &NotFoundError{Kind: KindTool, Name: name}
	}
	if err != nil {
		return nil, err
	}
	return manifest.ParseToolDefinition(data, url)
}

// BespokePath returns the manifest file of bespoke bottle name, if one exists.
func (s *Source) BespokePath(name string) (string, bool) {
	if s.BottlesDir == "" {
		return "", false
	}
	for _, ext := range manifestExtensions {
		path := filepath.Join(s.BottlesDir, name, "manifest"+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ListBespoke returns the names of bespoke bottles in sorted order.
// A missing directory yields no bottles.
func (s *Source) ListBespoke() ([]string, error) {
	if s.BottlesDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.BottlesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.FetchReadFmt, s.BottlesDir, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := s.BespokePath(entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// get fetches url, retrying once on network errors and 5xx responses.
// A 404 is reported as ErrNotFound.
func get(ctx context.Context, url string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for attempt := 0; attempt <= fetchRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf(messages.FetchCreateRequestFmt, err)
		}
		req.Header.Set("User-Agent", "bottle")

		resp, err := httpClient.Do(req)
		if err != nil {
			if shouldRetry(err, 0, attempt) {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf(messages.FetchFailedFmt, url, err)
		}
		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return nil, ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetry(nil, status, attempt) {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf(messages.FetchUnexpectedStatusFmt, url, statusText)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf(messages.FetchFailedFmt, url, err)
		}
		if int64(len(data)) > maxDocumentBytes {
			return nil, fmt.Errorf(messages.FetchTooLargeFmt, url, maxDocumentBytes)
		}
		return data, nil
	}
	return nil, fmt.Errorf(messages.FetchFailedFmt, url, errors.New(messages.FetchRetryBudgetExhausted))
}

func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= fetchRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
