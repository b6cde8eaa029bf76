package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// LocalStore stages media on the local filesystem under a base directory.
// Keys map directly onto relative paths; metadata is derived from the key
// and the file itself.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a filesystem-backed media store
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, apperrors.NewInternalError("failed to create media directory", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save writes the media file to disk
func (s *LocalStore) Save(ctx context.Context, key string, kind entities.MediaKind, contentType string, r io.Reader, size int64) (*entities.MediaRef, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, apperrors.NewInternalError("failed to create media directory", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create media file", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		os.Remove(p)
		return nil, apperrors.NewInternalError("failed to write media file", err)
	}

	return s.ref(key, kind, contentType, written)
}

// Open returns a reader over a staged file
func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("staged media not found: " + key)
		}
		return nil, apperrors.NewInternalError("failed to open media file", err)
	}
	return f, nil
}

// Stat returns the reference for a staged file
func (s *LocalStore) Stat(ctx context.Context, key string) (*entities.MediaRef, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("staged media not found: " + key)
		}
		return nil, apperrors.NewInternalError("failed to stat media file", err)
	}

	kind := kindFromKey(key)
	ref, refErr := s.ref(key, kind, contentTypeFor(kind), info.Size())
	if refErr != nil {
		return nil, refErr
	}
	ref.StagedAt = info.ModTime()
	return ref, nil
}

// Delete removes a staged file; deleting a missing key is not an error
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return apperrors.NewInternalError("failed to delete media file", err)
	}
	return nil
}

func (s *LocalStore) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || path.IsAbs(key) {
		return "", apperrors.NewValidationError("invalid media key")
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(key)), nil
}

func (s *LocalStore) ref(key string, kind entities.MediaKind, contentType string, size int64) (*entities.MediaRef, error) {
	return &entities.MediaRef{
		Key:         key,
		Kind:        kind,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func kindFromKey(key string) entities.MediaKind {
	return entities.MediaKind(path.Base(key))
}

func contentTypeFor(kind entities.MediaKind) string {
	if kind == entities.MediaKindSpeech {
		return "audio/m4a"
	}
	return "video/mp4"
}
