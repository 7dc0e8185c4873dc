// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"wharf-cli/internal/container"
	"wharf-cli/internal/issue"
	"wharf-cli/pkg/servicefile"
)

// ReceiptDirName is the directory, next to the recipe, where bake receipts
// are written.
const ReceiptDirName = ".wharf"

type (
	// Baker bakes service recipes into content-addressed images.
	Baker struct {
		engine container.Engine
		opts   Options
	}

	// Options configures a Baker.
	Options struct {
		// NoCache forces a rebuild even when the content-addressed image
		// already exists, and disables the engine's layer cache.
		NoCache bool

		// Output receives engine build progress. Defaults to os.Stderr.
		Output io.Writer

		// ContextParent is where temporary build contexts are created.
		// Empty means the system temp dir.
		ContextParent string
	}

	// Result describes a completed bake.
	Result struct {
		// ImageTag is the content-addressed tag of the baked image.
		ImageTag container.ImageTag

		// CacheKey is the full content hash behind the tag.
		CacheKey string

		// CacheHit is true when the image already existed and the engine
		// was never invoked.
		CacheHit bool

		// ReceiptPath is where the bake receipt was written.
		ReceiptPath string
	}
)

// NewBaker creates a Baker over the given engine.
func NewBaker(engine container.Engine, opts Options) *Baker {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &Baker{engine: engine, opts: opts}
}

// Bake runs the bootstrap sequence for the recipe and produces an image.
//
// Every input is validated before the engine is invoked: a bad recipe,
// missing manifest, or missing application package fails the bake with no
// partial image. When the content-addressed image already exists the bake
// is a cache hit and returns without building.
func (b *Baker) Bake(ctx context.Context, sf *servicefile.Servicefile) (*Result, error) {
	if err := sf.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate servicefile").
			Wrap(err).
			BuildError()
	}

	// Dependency manifest: read exactly once, fail-fast when absent.
	manifest, err := servicefile.LoadManifest(sf.ManifestPath())
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read dependency manifest").
			WithResource(sf.ManifestPath()).
			WithSuggestion("Check the manifest path in the servicefile").
			Wrap(err).
			BuildError()
	}
	log.Debug("dependency manifest loaded", "path", manifest.Path, "entries", len(manifest.Entries))

	// Application package must exist before anything is staged.
	appDir := sf.AppDirPath()
	if info, err := os.Stat(appDir); err != nil || !info.IsDir() {
		return nil, issue.NewErrorContext().
			WithOperation("stage application package").
			WithResource(appDir).
			WithSuggestion("Check the app_dir path in the servicefile").
			Wrap(fmt.Errorf("application package directory not found")).
			BuildError()
	}

	key, err := CacheKey(sf)
	if err != nil {
		return nil, issue.WrapWithOperation(err, "compute bake cache key")
	}
	tag := ImageTagFor(sf.Service.Name, key)

	if !b.opts.NoCache {
		exists, _ := b.engine.ImageExists(ctx, tag) //nolint:errcheck // inspect failure means "not found"
		if exists {
			log.Info("bake cache hit", "image", tag)
			receiptPath, err := b.writeReceipt(sf, manifest, tag, key)
			if err != nil {
				return nil, err
			}
			return &Result{ImageTag: tag, CacheKey: key, CacheHit: true, ReceiptPath: receiptPath}, nil
		}
	}

	ctxDir, cleanup, err := PrepareContext(sf, b.opts.ContextParent)
	if err != nil {
		return nil, issue.WrapWithOperation(err, "prepare build context")
	}
	defer cleanup()

	log.Info("baking image", "image", tag, "engine", b.engine.Name(), "base", sf.Service.BaseImage)
	buildOpts := container.BuildOptions{
		ContextDir: ctxDir,
		Dockerfile: DockerfileName,
		Tag:        tag,
		NoCache:    b.opts.NoCache,
		Stdout:     b.opts.Output,
		Stderr:     b.opts.Output,
	}
	if err := b.engine.Build(ctx, buildOpts); err != nil {
		return nil, err
	}

	receiptPath, err := b.writeReceipt(sf, manifest, tag, key)
	if err != nil {
		return nil, err
	}

	return &Result{ImageTag: tag, CacheKey: key, CacheHit: false, ReceiptPath: receiptPath}, nil
}

func (b *Baker) writeReceipt(sf *servicefile.Servicefile, manifest *servicefile.Manifest, tag container.ImageTag, key string) (string, error) {
	deps := make([]string, len(manifest.Entries))
	for i, e := range manifest.Entries {
		deps[i] = e.String()
	}

	s := sf.Service
	receipt := Receipt{
		Service:      string(s.Name),
		ImageTag:     string(tag),
		CacheKey:     key,
		BaseImage:    string(s.BaseImage),
		Port:         uint16(s.Port),
		UID:          uint32(s.Identity.UID),
		Username:     string(s.Identity.Username),
		Entrypoint:   string(s.Entrypoint),
		Dependencies: deps,
		BakedAt:      time.Now().UTC(),
	}

	dir := filepath.Join(sf.Dir, ReceiptDirName)
	path := filepath.Join(dir, ReceiptFileName)
	if err := WriteReceipt(path, &receipt); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("write bake receipt").
			WithResource(path).
			Wrap(err).
			BuildError()
	}
	return path, nil
}
