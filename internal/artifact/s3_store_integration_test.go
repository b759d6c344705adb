//go:build integration

package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
)

func TestS3StoreAgainstMinio(t *testing.T) {
	ctx := context.Background()

	container, err := tcminio.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	s, err := NewS3Store(S3Config{
		Endpoint:  endpoint,
		AccessKey: container.Username,
		SecretKey: container.Password,
		Bucket:    "bodymask-samples",
		Prefix:    "site",
	})
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "assets/samples/a.png", []byte("png-bytes"), "image/png"))
	require.NoError(t, s.Put(ctx, "assets/samples/manifest.json", []byte("{}\n"), "application/json"))

	got, err := s.Get(ctx, "assets/samples/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(got))

	keys, err := s.List(ctx, "assets/samples")
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/samples/a.png", "assets/samples/manifest.json"}, keys)

	_, err = s.Get(ctx, "assets/samples/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	u, err := s.GetURL(ctx, "assets/samples/a.png")
	require.NoError(t, err)
	assert.Contains(t, u, "site/assets/samples/a.png")
}
