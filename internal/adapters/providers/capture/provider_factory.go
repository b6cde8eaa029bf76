package capture

import (
	"time"

	"github.com/zatekoja/strokescreening/internal/domain/providers"
)

// ProviderConfig configures capture providers
type ProviderConfig struct {
	Provider     string
	StagedMaxAge time.Duration
}

// NewCaptureProvider selects the capture implementation. "mock" fabricates
// media for development; anything else resolves device-staged uploads.
func NewCaptureProvider(cfg ProviderConfig, media providers.MediaStore) providers.CaptureProvider {
	if cfg.Provider == "mock" {
		return NewMockAdapter(media)
	}
	return NewStagedAdapter(media, cfg.StagedMaxAge)
}
