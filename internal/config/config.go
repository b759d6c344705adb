package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"bodymask/internal/artifact"
	"bodymask/internal/manifest"
)

type Config struct {
	// Root is the absolute project root that assets/samples lives under.
	Root         string
	SamplesDir   string
	ManifestName string
	Publish      ArtifactConfig
}

type ArtifactConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Load resolves the run configuration. root overrides the project root; when
// empty the working directory is used. A .env file in the working directory
// is read if present. Environment values only feed the publish settings.
func Load(root string) (*Config, error) {
	_ = godotenv.Load()

	root = strings.TrimSpace(root)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	return &Config{
		Root:         filepath.Clean(abs),
		SamplesDir:   manifest.DefaultSamplesDir,
		ManifestName: manifest.DefaultManifestName,
		Publish:      loadArtifactConfig(),
	}, nil
}

// S3 converts the publish settings for artifact.NewS3Store.
func (a ArtifactConfig) S3() artifact.S3Config {
	return artifact.S3Config{
		Endpoint:  a.Endpoint,
		Region:    a.Region,
		AccessKey: a.AccessKey,
		SecretKey: a.SecretKey,
		Bucket:    a.Bucket,
		Prefix:    a.Prefix,
		UseSSL:    a.UseSSL,
	}
}

// Enabled reports whether enough settings are present to publish.
func (a ArtifactConfig) Enabled() bool {
	return a.Endpoint != "" && a.AccessKey != "" && a.SecretKey != ""
}

func loadArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		Endpoint:  strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT")),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "bodymask-samples"),
		Prefix:    strings.TrimSpace(os.Getenv("ARTIFACT_S3_PREFIX")),
		UseSSL:    resolveUseSSL(os.Getenv("ARTIFACT_S3_USE_SSL")),
	}
}

func resolveUseSSL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
