// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"wharf-cli/internal/container"
	"wharf-cli/pkg/servicefile"
)

// tagKeyLen is how many hex digits of the cache key appear in image tags.
const tagKeyLen = 12

// CacheKey derives the content address of a bake: a SHA-256 over the
// recipe's rendered bootstrap, the manifest bytes, and the application
// tree. The three inputs are hashed as separate labeled sections so a
// change in any one of them changes the key, and the manifest section is
// independent of the application section (dependency-layer stability is
// checkable on its own).
func CacheKey(sf *servicefile.Servicefile) (string, error) {
	dockerfile, err := RenderDockerfile(sf)
	if err != nil {
		return "", err
	}

	manifestHash, err := HashFile(sf.ManifestPath())
	if err != nil {
		return "", fmt.Errorf("hash dependency manifest: %w", err)
	}

	appHash, err := HashDir(sf.AppDirPath())
	if err != nil {
		return "", fmt.Errorf("hash application package: %w", err)
	}

	h := sha256.New()
	h.Write([]byte("dockerfile:" + dockerfile + "\n"))
	h.Write([]byte("manifest:" + manifestHash + "\n"))
	h.Write([]byte("app:" + appHash + "\n"))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ImageTagFor returns the content-addressed tag for a service bake.
func ImageTagFor(name servicefile.ServiceName, cacheKey string) container.ImageTag {
	short := cacheKey
	if len(short) > tagKeyLen {
		short = short[:tagKeyLen]
	}
	return container.ImageTag(fmt.Sprintf("wharf-%s:%s", name, short))
}

// HashFile returns the SHA-256 of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashDir returns a SHA-256 over a directory tree: every regular file's
// relative path and content hash, in sorted path order. Content hashing
// (rather than size/mtime) keeps keys byte-stable across checkouts.
func HashDir(dir string) (string, error) {
	type entry struct {
		rel string
		sum string
	}
	var entries []entry

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		sum, err := HashFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, entry{rel: filepath.ToSlash(rel), sum: sum})
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s:%s\n", e.rel, e.sum)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
