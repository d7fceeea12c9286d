package githubapi

import "context"

// ContentFetcher fetches one file's text at a ref. *Client satisfies it.
type ContentFetcher interface {
	FileContent(ctx context.Context, path, ref string) (string, error)
}

// FileProvider serves repository files pinned at one commit, typically the
// PR head, so every fetch during an extraction sees the same tree.
type FileProvider struct {
	fetcher ContentFetcher
	ref     string
}

func NewFileProvider(fetcher ContentFetcher, ref string) *FileProvider {
	return &FileProvider{fetcher: fetcher, ref: ref}
}

func (p *FileProvider) Fetch(ctx context.Context, path string) (string, error) {
	return p.fetcher.FileContent(ctx, path, p.ref)
}
