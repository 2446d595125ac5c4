// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Disk archives exports below a local directory.
type Disk struct {
	dir string
}

// NewDisk returns an archiver writing below dir. Returns nil when dir is
// empty.
func NewDisk(dir string) *Disk {
	if dir == "" {
		return nil
	}
	return &Disk{dir: dir}
}

// Archive writes data to dir/key and returns the file path.
func (d *Disk) Archive(_ context.Context, key, _ string, data []byte) (string, error) {
	// Rooting the key before cleaning keeps it inside dir.
	path := filepath.Join(d.dir, filepath.FromSlash(filepath.Clean("/"+key)))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive %s: %w", key, err)
	}
	return path, nil
}
