package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodymask/internal/artifact"
	"bodymask/internal/safeio"
)

func setupProject(t *testing.T, names ...string) (*safeio.SafeFS, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "assets", "samples")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("dummy"), 0o644))
	}
	fsys, err := safeio.NewSafeFS(root)
	require.NoError(t, err)
	return fsys, filepath.Join(fsys.Root(), "assets", "samples")
}

func TestRun_FiltersSortsAndWrites(t *testing.T) {
	fsys, dir := setupProject(t, "B.png", "a.JPG", ".hidden.png", "manifest.json", "notes.txt")

	res, err := New(fsys, nil).Run(context.Background())
	require.NoError(t, err)

	want := "{\n" +
		"  \"samples\": [\n" +
		"    {\n" +
		"      \"label\": \"a.JPG\",\n" +
		"      \"file\": \"assets/samples/a.JPG\"\n" +
		"    },\n" +
		"    {\n" +
		"      \"label\": \"B.png\",\n" +
		"      \"file\": \"assets/samples/B.png\"\n" +
		"    }\n" +
		"  ]\n" +
		"}\n"

	got, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
	assert.Equal(t, want, string(res.Data))
	assert.Equal(t, "assets/samples/manifest.json", res.Key)
	assert.Equal(t, filepath.Join(dir, "manifest.json"), res.Path)
	assert.Len(t, res.Manifest.Samples, 2)
}

func TestRun_Idempotent(t *testing.T) {
	fsys, dir := setupProject(t, "z.jpeg", "Y.png", "x.jpg")
	b := New(fsys, nil)

	_, err := b.Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)

	res, err := b.Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for _, s := range res.Manifest.Samples {
		assert.NotEqual(t, "manifest.json", s.Label)
	}
}

func TestRun_OutputShape(t *testing.T) {
	fsys, dir := setupProject(t, "b.png", "A.jpg", "ü-unicode.png", "<tag>&.png")

	_, err := New(fsys, nil).Run(context.Background())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)

	var doc map[string][]map[string]string
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc, 1)
	samples, ok := doc["samples"]
	require.True(t, ok)
	require.Len(t, samples, 4)
	for _, s := range samples {
		assert.Len(t, s, 2)
		assert.Equal(t, "assets/samples/"+s["label"], s["file"])
	}

	assert.Contains(t, string(raw), "ü-unicode.png")
	assert.Contains(t, string(raw), "<tag>&.png")
}

func TestRun_EmptyDirectory(t *testing.T) {
	fsys, dir := setupProject(t, "readme.txt", ".DS_Store")

	res, err := New(fsys, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Manifest.Samples)

	got, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"samples\": []\n}\n", string(got))
}

func TestRun_MissingDirectory(t *testing.T) {
	root := t.TempDir()
	fsys, err := safeio.NewSafeFS(root)
	require.NoError(t, err)

	_, err = New(fsys, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDir))
	assert.Equal(t, "Missing folder: "+filepath.Join(fsys.Root(), "assets", "samples"), err.Error())

	_, statErr := os.Stat(filepath.Join(root, "assets", "samples", "manifest.json"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(root, "assets"))
	assert.True(t, os.IsNotExist(statErr), "no directories may be created")
}

func TestRun_UppercaseExtensionIncludedOnce(t *testing.T) {
	fsys, _ := setupProject(t, "photo.PNG")

	res, err := New(fsys, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Manifest.Samples, 1)
	assert.Equal(t, Sample{Label: "photo.PNG", File: "assets/samples/photo.PNG"}, res.Manifest.Samples[0])
}

func TestRun_CustomStoreLeavesDiskUntouched(t *testing.T) {
	fsys, dir := setupProject(t, "a.png")
	mem := artifact.NewMemoryStore()
	b := New(fsys, nil)
	b.Store = mem

	res, err := b.Run(context.Background())
	require.NoError(t, err)

	stored, err := mem.Get(context.Background(), res.Key)
	require.NoError(t, err)
	assert.Equal(t, res.Data, stored)
	assert.Equal(t, "application/json", mem.ContentType(res.Key))

	_, statErr := os.Stat(filepath.Join(dir, "manifest.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_WriteFailurePropagates(t *testing.T) {
	fsys, dir := setupProject(t, "a.png")
	// A directory in place of the manifest makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "manifest.json"), 0o755))

	_, err := New(fsys, nil).Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingDir))
}

func TestRun_SymlinkedSamplesDir(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(elsewhere, "a.png"), []byte("dummy"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0o755))
	require.NoError(t, os.Symlink(elsewhere, filepath.Join(root, "assets", "samples")))
	fsys, err := safeio.NewSafeFS(root)
	require.NoError(t, err)

	res, err := New(fsys, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Manifest.Samples, 1)
	assert.Equal(t, Sample{Label: "a.png", File: "assets/samples/a.png"}, res.Manifest.Samples[0])

	got, err := os.ReadFile(filepath.Join(elsewhere, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, res.Data, got)

	resolved, err := filepath.EvalSymlinks(elsewhere)
	require.NoError(t, err)
	assert.Equal(t, resolved, res.Dir.Root())
}

func TestRun_InvalidUTF8NameWritesNothing(t *testing.T) {
	fsys, dir := setupProject(t, "ok.png", "caf\xe9.png")

	_, err := New(fsys, nil).Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingDir))

	_, statErr := os.Stat(filepath.Join(dir, "manifest.json"))
	assert.True(t, os.IsNotExist(statErr))
}
