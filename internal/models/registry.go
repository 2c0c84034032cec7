package models

import (
	"context"
	"sync"
)

// ArtifactURLResolver turns a stored artifact path into a client-facing URL.
// The local backend maps into the static /storage mount; the S3 backend
// returns a pre-signed URL.
type ArtifactURLResolver interface {
	ResolveURL(ctx context.Context, path string) (string, error)
}

var (
	urlResolver ArtifactURLResolver
	registryMu  sync.RWMutex
)

// RegisterArtifactURLResolver sets the resolver used by AfterFind hooks.
func RegisterArtifactURLResolver(resolver ArtifactURLResolver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	urlResolver = resolver
}

func resolveArtifactURL(ctx context.Context, path string) string {
	registryMu.RLock()
	resolver := urlResolver
	registryMu.RUnlock()

	if resolver == nil || path == "" {
		return ""
	}
	url, err := resolver.ResolveURL(ctx, path)
	if err != nil {
		return ""
	}
	return url
}
