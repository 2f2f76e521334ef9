package heightmap

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMalformedFile is returned when a persisted height map document can not be parsed.
var ErrMalformedFile = errors.New("malformed height map file")

// Save writes the map as a self describing YAML document. Writing then reading reproduces an
// equivalent map.
func (m *HeightMap) Save(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("failed to encode height map: %w", err)
	}
	return encoder.Close()
}

// SaveFile writes the map to path, truncating any previous content.
func (m *HeightMap) SaveFile(path string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(0644))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	return m.Save(f)
}

// Load reads a height map document written by Save. Parse failures yield a wrapped
// ErrMalformedFile; maps that parse but can not support interpolation yield a wrapped
// ErrInvalidMap.
func Load(r io.Reader) (*HeightMap, error) {
	var m HeightMap
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads a height map document from path.
func LoadFile(path string) (m *HeightMap, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	return Load(f)
}
