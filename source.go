package main

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by a Source when the requested content file does not exist.
var ErrNotFound = errors.New("content not found")

// Source reads one content file by its path relative to the content root.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads content files from a filesystem, usually os.DirFS(contentDir).
type DirSource struct {
	FS fs.FS
}

func (s DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.FS, path.Clean(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotFound, "%s", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}

// HTTPSource fetches content files from a static host with one GET per file.
type HTTPSource struct {
	BaseURL *url.URL
	Client  *http.Client
}

func NewHTTPSource(base string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "parsing content url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Newf("content url %q must be http or https", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{BaseURL: u, Client: client}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := s.BaseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(name, "/")})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", name)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", name)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "%s", name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("fetching %s: unexpected status %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}
