package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"bodymask/internal/artifact"
	"bodymask/internal/safeio"
	"bodymask/internal/scan"
)

// ErrMissingDir is returned when the samples directory does not exist.
var ErrMissingDir = errors.New("Missing folder")

// Builder regenerates the manifest for one samples directory.
type Builder struct {
	FS *safeio.SafeFS
	// SamplesDir is slash-separated and relative to the FS root. It is both
	// the directory listed and the prefix of every Sample.File.
	SamplesDir   string
	ManifestName string
	// Store receives the encoded manifest under SamplesDir/ManifestName.
	// Nil writes manifest.json into the resolved samples directory.
	Store  artifact.Store
	Logger *zap.Logger
}

// Result describes a completed run.
type Result struct {
	Manifest Manifest
	Data     []byte
	// Key is the store key the manifest was written to.
	Key string
	// Path is the manifest's absolute location under the FS root.
	Path string
	// Dir is the samples directory as listed, symlinks resolved.
	Dir *safeio.SafeFS
}

// New returns a Builder for the default layout under fsys.
func New(fsys *safeio.SafeFS, logger *zap.Logger) *Builder {
	return &Builder{
		FS:           fsys,
		SamplesDir:   DefaultSamplesDir,
		ManifestName: DefaultManifestName,
		Logger:       logger,
	}
}

// Run checks that the samples directory exists, lists it, and overwrites the
// manifest. When the directory is missing nothing is written and the error
// wraps ErrMissingDir.
func (b *Builder) Run(ctx context.Context) (Result, error) {
	if b == nil || b.FS == nil {
		return Result{}, fmt.Errorf("manifest: builder is not configured")
	}
	log := b.logger()
	dir := b.samplesDir()
	name := b.manifestName()
	abs := b.FS.Abs(filepath.FromSlash(dir))

	dirFS, err := b.FS.Sub(filepath.FromSlash(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingDir, abs)
		}
		return Result{}, fmt.Errorf("open %s: %w", abs, err)
	}

	names, err := scan.Samples(dirFS, ".", scan.ImageOptions(name))
	if err != nil {
		return Result{}, fmt.Errorf("list %s: %w", abs, err)
	}
	log.Debug("samples listed", zap.String("dir", abs), zap.Int("count", len(names)))

	m := Build(names, dir)
	data, err := Encode(m)
	if err != nil {
		return Result{}, err
	}

	key := path.Join(dir, name)
	if b.Store != nil {
		err = b.Store.Put(ctx, key, data, "application/json")
	} else {
		err = artifact.NewDiskStore(dirFS).Put(ctx, name, data, "application/json")
	}
	if err != nil {
		return Result{}, fmt.Errorf("write %s: %w", key, err)
	}
	log.Debug("manifest written", zap.String("key", key), zap.Int("bytes", len(data)))

	return Result{
		Manifest: m,
		Data:     data,
		Key:      key,
		Path:     b.FS.Abs(filepath.FromSlash(key)),
		Dir:      dirFS,
	}, nil
}

func (b *Builder) samplesDir() string {
	if b.SamplesDir == "" {
		return DefaultSamplesDir
	}
	return path.Clean(filepath.ToSlash(b.SamplesDir))
}

func (b *Builder) manifestName() string {
	if b.ManifestName == "" {
		return DefaultManifestName
	}
	return b.ManifestName
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return zap.NewNop()
}
