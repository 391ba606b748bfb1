// Package filesystem stores rendered documents as Markdown files, one
// <KEY>.md per issue in a single directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/logger"
)

const ext = ".md"

// chtimes is swapped in tests.
var chtimes = os.Chtimes

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore writes documents to <dir>/<KEY>.md.
type DocumentStore struct {
	dir string
}

// NewDocumentStore creates a store rooted at dir. The directory is created
// on the first save.
func NewDocumentStore(dir string) *DocumentStore {
	return &DocumentStore{dir: dir}
}

// Dir returns the output directory.
func (s *DocumentStore) Dir() string {
	return s.dir
}

// PathFor returns the file a document for key is written to.
func (s *DocumentStore) PathFor(key string) string {
	return filepath.Join(s.dir, key+ext)
}

// SaveDocument writes the document, replacing any previous file.
func (s *DocumentStore) SaveDocument(ctx context.Context, doc *domain.IssueDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	if err := validateKey(doc.Key); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := s.PathFor(doc.Key)
	if err := os.WriteFile(path, []byte(doc.Content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	// Keep the file's mtime in step with the render time so GetDocument
	// reports it back. The content is already written, so a failure here
	// only costs the timestamp.
	if !doc.ExportedAt.IsZero() {
		if err := chtimes(path, doc.ExportedAt, doc.ExportedAt); err != nil {
			logger.Warn("Failed to set export time on %s: %v", path, err)
		}
	}
	return nil
}

// GetDocument reads the document for key. ExportedAt is the file's mtime.
func (s *DocumentStore) GetDocument(ctx context.Context, key string) (*domain.IssueDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	path := s.PathFor(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &domain.IssueDocument{
		Key:        key,
		Content:    string(data),
		ExportedAt: info.ModTime(),
	}, nil
}

// ListKeys returns the keys of all .md files in the directory, sorted.
// A missing directory holds no documents.
func (s *DocumentStore) ListKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	keys := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(keys)
	return keys, nil
}

// validateKey rejects keys that would escape the output directory.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: document without issue key", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: issue key %q is not a valid file name", domain.ErrInvalidInput, key)
	}
	return nil
}
