package source

import (
	"context"
	"fmt"
	"os"

	"github.com/mtlprog/ampserve/internal/domain"
)

// FileProvider reads text from the local filesystem on every fetch.
type FileProvider struct {
	path string
}

// NewFileProvider creates a FileProvider.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Fetch reads the whole file.
func (p *FileProvider) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(p.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamFetch, err)
	}
	return string(b), nil
}

// Name implements Provider.
func (p *FileProvider) Name() string {
	return "file"
}
