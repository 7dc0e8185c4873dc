// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ReceiptFileName is the bake receipt's filename inside ReceiptDirName.
const ReceiptFileName = "receipt.toml"

// Receipt records what a bake produced: the content-addressed image and
// the launch-relevant facts (identity, port, entry point). It is written
// on every successful bake, including cache hits, so orchestration tooling
// can pick up the current image without re-deriving the hash.
type Receipt struct {
	Service      string    `toml:"service"`
	ImageTag     string    `toml:"image_tag"`
	CacheKey     string    `toml:"cache_key"`
	BaseImage    string    `toml:"base_image"`
	Port         uint16    `toml:"port"`
	UID          uint32    `toml:"uid"`
	Username     string    `toml:"username"`
	Entrypoint   string    `toml:"entrypoint"`
	Dependencies []string  `toml:"dependencies"`
	BakedAt      time.Time `toml:"baked_at"`
}

// WriteReceipt marshals the receipt as TOML and writes it to path,
// creating the parent directory when needed.
func WriteReceipt(path string, r *Receipt) error {
	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create receipt directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	return nil
}

// ReadReceipt loads a receipt written by WriteReceipt.
func ReadReceipt(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}
	var r Receipt
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse receipt %s: %w", path, err)
	}
	return &r, nil
}
