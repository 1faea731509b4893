// Package storage persists produced audio artifacts on the local filesystem
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultRoot is used when no artifact root is configured
const DefaultRoot = "data/audio"

// ArtifactStore writes audio payloads under a configured root directory
type ArtifactStore struct {
	root string
}

// NewArtifactStore creates an artifact store rooted at the given directory.
// An empty root falls back to DefaultRoot.
func NewArtifactStore(root string) (*ArtifactStore, error) {
	if root == "" {
		root = DefaultRoot
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact root %s: %w", root, err)
	}
	return &ArtifactStore{root: root}, nil
}

// Root returns the artifact root directory
func (s *ArtifactStore) Root() string {
	return s.root
}

// SaveAudio writes an audio payload with a collision-resistant filename
// derived from the owning batch or job, the work unit, the provider and a
// timestamp. It returns the stored path.
func (s *ArtifactStore) SaveAudio(ownerID, caseID, providerID, format string, data []byte) (string, error) {
	if format == "" {
		format = "mp3"
	}
	name := fmt.Sprintf("%s_%s_%s_%d.%s", ownerID, caseID, providerID, time.Now().UnixNano(), format)
	path := filepath.Join(s.root, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio artifact %s: %w", path, err)
	}
	return path, nil
}
