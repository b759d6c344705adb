package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bodymask/internal/artifact"
	"bodymask/internal/config"
	"bodymask/internal/manifest"
	"bodymask/internal/publish"
	"bodymask/internal/safeio"
)

type options struct {
	root    string
	dryRun  bool
	publish bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	var (
		opts   options
		logger *zap.Logger
	)
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Regenerate assets/samples/manifest.json",
		Long: `Lists the .jpg, .jpeg and .png files in assets/samples (hidden files and the
manifest itself excluded), sorts them by case-insensitive name and rewrites
assets/samples/manifest.json.

With --publish the samples and the manifest are also uploaded to the S3/MinIO
bucket configured through ARTIFACT_S3_* environment variables (or .env).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, logger)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "project root containing assets/samples (default: working directory)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the manifest to stdout instead of writing it")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "upload samples and manifest to the configured bucket")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "publish")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func run(ctx context.Context, out io.Writer, opts options, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := config.Load(opts.root)
	if err != nil {
		return err
	}
	fsys, err := safeio.NewSafeFS(cfg.Root)
	if err != nil {
		return fmt.Errorf("open project root %s: %w", cfg.Root, err)
	}
	logger.Debug("project root", zap.String("root", fsys.Root()))

	b := &manifest.Builder{
		FS:           fsys,
		SamplesDir:   cfg.SamplesDir,
		ManifestName: cfg.ManifestName,
		Logger:       logger,
	}
	if opts.dryRun {
		b.Store = artifact.NewMemoryStore()
	}

	res, err := b.Run(ctx)
	if err != nil {
		if errors.Is(err, manifest.ErrMissingDir) {
			logger.Error("samples directory not found", zap.Error(err))
		}
		return err
	}

	if opts.dryRun {
		_, err := out.Write(res.Data)
		return err
	}
	fmt.Fprintf(out, "Wrote %s with %d sample(s).\n", res.Path, len(res.Manifest.Samples))

	if !opts.publish {
		return nil
	}
	if !cfg.Publish.Enabled() {
		return fmt.Errorf("publish: ARTIFACT_S3_ENDPOINT and S3 credentials must be set")
	}
	remote, err := artifact.NewS3Store(cfg.Publish.S3())
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	p := &publish.Publisher{Samples: res.Dir, Store: remote, Logger: logger}
	rep, err := p.Publish(ctx, res.Manifest, res.Key, res.Data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Published %s to bucket %s (%d object(s)).\n", rep.ManifestKey, cfg.Publish.Bucket, len(rep.Uploaded))
	if rep.ManifestURL != "" {
		fmt.Fprintf(out, "Manifest URL: %s\n", rep.ManifestURL)
	}
	return nil
}
