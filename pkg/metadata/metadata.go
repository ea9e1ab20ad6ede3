// Package metadata writes and verifies the YAML manifest that describes one
// preprocessing run.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the current manifest layout.
const ManifestVersion = "1"

// Suffix is appended to the output path to name its manifest.
const Suffix = ".meta.yaml"

// Manifest verification errors.
var (
	ErrNoHashFound  = errors.New("no input hash in manifest")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Manifest records where a cleaned dataset came from.
type Manifest struct {
	Version     string    `yaml:"version"`
	Input       string    `yaml:"input"`
	InputHash   string    `yaml:"input_hash"`
	InputFormat string    `yaml:"input_format"`
	Records     int       `yaml:"records"`
	Format      string    `yaml:"format"`
	Output      string    `yaml:"output"`
	Stemmer     string    `yaml:"stemmer,omitempty"`
	RunID       string    `yaml:"run_id,omitempty"`
	CreatedAt   time.Time `yaml:"created_at"`
}

// PathFor returns the manifest path for an output file.
func PathFor(output string) string {
	return output + Suffix
}

// CalculateHash computes the SHA-256 hash of content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// HashFile computes the SHA-256 hash of the file at path without loading it
// into memory.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// New creates a manifest for input, hashing its current content.
func New(input string) (*Manifest, error) {
	hash, err := HashFile(input)
	if err != nil {
		return nil, err
	}

	return &Manifest{
		Version:   ManifestVersion,
		Input:     input,
		InputHash: hash,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}, nil
}

// Write saves the manifest as YAML.
func (m *Manifest) Write(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Read loads a manifest from path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Check recomputes the input hash and compares it with the recorded one.
func (m *Manifest) Check() error {
	if m.InputHash == "" {
		return ErrNoHashFound
	}

	actual, err := HashFile(m.Input)
	if err != nil {
		return err
	}

	if actual != m.InputHash {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, m.InputHash, actual)
	}

	return nil
}

// Verify reads the manifest at path and checks that its input is unchanged.
func Verify(path string) (bool, error) {
	m, err := Read(path)
	if err != nil {
		return false, err
	}

	if err := m.Check(); err != nil {
		return false, err
	}

	return true, nil
}
