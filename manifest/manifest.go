// Package manifest persists the self-description of a photon store.
//
// Bucket files carry no header. The manifest is a small sidecar document that
// records the format version, the record width, the aperture binning and,
// when known, the field-of-view radius the store was written with, so that a
// reader can detect a mismatch instead of silently decoding photons against
// the wrong grid or direction scale.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/elut/codec"
	"github.com/hupe1980/elut/internal/fs"
	"github.com/hupe1980/elut/quantization"
)

const (
	// FileName is the name of the manifest inside a store directory.
	FileName = "elut.manifest"
	// CurrentVersion is the bucket format version written by this package.
	CurrentVersion = 1
)

var (
	// ErrNotFound is returned by Load when the store has no manifest.
	ErrNotFound = errors.New("manifest not found")
	// ErrUnsupportedVersion is returned for manifests of an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported manifest version")
	// ErrUnknownCodec is returned when the manifest names a codec this build does not know.
	ErrUnknownCodec = errors.New("unknown manifest codec")
)

// Manifest describes the on-disk format of one store.
type Manifest struct {
	Version    int                  `json:"version"`
	Codec      string               `json:"codec"`
	RecordSize int                  `json:"record_size"`
	Binning    quantization.Binning `json:"binning"`

	// FieldOfViewRadius is the direction cosine radius the directions were
	// quantized with. Zero means it was not recorded.
	FieldOfViewRadius float64 `json:"field_of_view_radius,omitempty"`
}

// New returns the manifest for a store written by this build.
func New(b quantization.Binning) *Manifest {
	return &Manifest{
		Version:    CurrentVersion,
		RecordSize: quantization.RecordSize,
		Binning:    b,
	}
}

// Compatible reports whether a store with manifest m can be read with b.
func (m *Manifest) Compatible(b quantization.Binning) error {
	if m.RecordSize != quantization.RecordSize {
		return fmt.Errorf("record size %d, this build reads %d", m.RecordSize, quantization.RecordSize)
	}
	if m.Binning != b {
		return fmt.Errorf("store binning %+v, requested %+v", m.Binning, b)
	}
	return nil
}

// CompatibleFieldOfView reports whether directions stored under m decode
// correctly with radius r. Unrecorded radii on either side are not checked.
func (m *Manifest) CompatibleFieldOfView(r float64) error {
	if m.FieldOfViewRadius == 0 || r == 0 || m.FieldOfViewRadius == r {
		return nil
	}
	return fmt.Errorf("store field of view radius %v, requested %v", m.FieldOfViewRadius, r)
}

// envelope carries the codec name next to the encoded manifest so Load can
// pick the decoder. It is always plain JSON.
type envelope struct {
	Codec string `json:"codec"`
}

// Store manages the manifest file of one store directory.
type Store struct {
	fs    fs.FileSystem
	dir   string
	codec codec.Codec
	mu    sync.Mutex
}

// NewStore creates a new manifest store. A nil codec selects codec.Default.
func NewStore(fsys fs.FileSystem, dir string, c codec.Codec) *Store {
	if c == nil {
		c = codec.Default
	}
	return &Store{
		fs:    fsys,
		dir:   dir,
		codec: c,
	}
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Load reads the manifest. It returns ErrNotFound if none was written.
func (s *Store) Load() (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fs.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := (codec.JSON{}).Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	c := s.codec
	if env.Codec != "" {
		var ok bool
		if c, ok = codec.ByName(env.Codec); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, env.Codec)
		}
	}

	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, m.Version, CurrentVersion)
	}
	return &m, nil
}

// Save atomically writes m.
func (s *Store) Save(m *Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.Version = CurrentVersion
	m.Codec = s.codec.Name()

	data, err := s.codec.Marshal(m)
	if err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(s.fs, s.Path(), data, 0o644); err != nil {
		return err
	}
	return s.syncDir()
}

func (s *Store) syncDir() error {
	f, err := s.fs.OpenFile(s.dir, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
