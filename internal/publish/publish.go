package publish

import (
	"context"
	"fmt"
	"io/fs"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"bodymask/internal/artifact"
	"bodymask/internal/manifest"
)

const defaultContentType = "application/octet-stream"

// Publisher mirrors a generated manifest and the files it references to a
// remote store, keeping the same relative keys so the uploaded manifest
// resolves against the bucket root.
type Publisher struct {
	// Samples is rooted at the samples directory; entries are read by label.
	Samples fs.FS
	Store   artifact.Store
	Logger  *zap.Logger
}

// Report summarizes a publish.
type Report struct {
	Uploaded    []string
	ManifestKey string
	ManifestURL string
}

// Publish uploads every sample referenced by m, then the manifest bytes under
// manifestKey. The manifest goes last so a reader never sees entries whose
// files are not there yet. The first failure aborts the publish.
func (p *Publisher) Publish(ctx context.Context, m manifest.Manifest, manifestKey string, data []byte) (Report, error) {
	if p == nil || p.Samples == nil || p.Store == nil {
		return Report{}, fmt.Errorf("publish: publisher is not configured")
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rep := Report{Uploaded: make([]string, 0, len(m.Samples)+1)}
	for _, s := range m.Samples {
		key := path.Clean(s.File)
		content, err := fs.ReadFile(p.Samples, s.Label)
		if err != nil {
			return rep, fmt.Errorf("read sample %s: %w", key, err)
		}
		ct := contentType(content)
		if err := p.Store.Put(ctx, key, content, ct); err != nil {
			return rep, fmt.Errorf("upload sample %s: %w", key, err)
		}
		log.Debug("sample uploaded", zap.String("key", key), zap.String("content_type", ct), zap.Int("bytes", len(content)))
		rep.Uploaded = append(rep.Uploaded, key)
	}

	if err := p.Store.Put(ctx, manifestKey, data, "application/json"); err != nil {
		return rep, fmt.Errorf("upload manifest %s: %w", manifestKey, err)
	}
	rep.Uploaded = append(rep.Uploaded, manifestKey)
	rep.ManifestKey = manifestKey

	u, err := p.Store.GetURL(ctx, manifestKey)
	if err != nil {
		log.Warn("manifest url unavailable", zap.String("key", manifestKey), zap.Error(err))
	} else {
		rep.ManifestURL = u
	}
	log.Info("manifest published", zap.String("key", manifestKey), zap.Int("objects", len(rep.Uploaded)))
	return rep, nil
}

// contentType sniffs the leading bytes. Unrecognised data is sent as
// application/octet-stream; nothing is rejected.
func contentType(content []byte) string {
	if len(content) == 0 {
		return defaultContentType
	}
	mt := mimetype.Detect(content)
	if mt == nil || mt.Is("text/plain") {
		return defaultContentType
	}
	return mt.String()
}
