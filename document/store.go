// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package document

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// Store persists raw documents under an explicitly injected root directory.
// The root is owned by process configuration; there is no ambient global
// upload directory. Documents are addressed by their base file name: one
// stored document per name, and re-submitting a name overwrites its bytes.
type Store struct {
	root   string
	logger *slog.Logger
}

// NewStore creates a document store rooted at root, creating the directory
// if needed.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, ErrStorageRootRequired
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{
		root:   root,
		logger: slog.Default().With("component", "document-store"),
	}, nil
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes a raw document synchronously and returns its stored path.
// The write completes before any job referencing the path is created, so a
// ready job's document is guaranteed present barring external deletion.
func (s *Store) Save(fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	// Base name only: submitted names must not escape the root.
	path := filepath.Join(s.root, filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store document %q: %w", fileName, err)
	}

	s.logger.Debug("stored raw document", "path", path, "bytes", len(data))
	return path, nil
}

// Read returns the raw bytes of a previously stored document.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", path, err)
	}
	return data, nil
}

// IsPDF reports whether data starts with the PDF magic header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}
