package providers

import (
	"context"
	"io"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
)

// MediaStore stages capture files between device upload and prediction
// upload. Keys follow "<sessionID>/<kind>".
type MediaStore interface {
	// Save stores a media file under the given key.
	Save(ctx context.Context, key string, kind entities.MediaKind, contentType string, r io.Reader, size int64) (*entities.MediaRef, error)

	// Open returns a reader over a staged file.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Stat returns the reference for a staged file without opening it.
	Stat(ctx context.Context, key string) (*entities.MediaRef, error)

	// Delete removes a staged file.
	Delete(ctx context.Context, key string) error
}

// MediaKey builds the staging key for a session capture
func MediaKey(sessionID string, kind entities.MediaKind) string {
	return sessionID + "/" + string(kind)
}

// FailureKey builds the staging key for a device-reported capture failure
// marker. Staging the media itself clears the marker.
func FailureKey(sessionID string, kind entities.MediaKind) string {
	return sessionID + "/" + string(kind) + ".failed"
}
