package plan

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/seqkit/errors"
)

// Loader loads plans by name.
type Loader interface {
	Load(name string) (*Plan, error)
}

// FileLoader loads plans from YAML or JSON files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches dirs for {name}.yaml,
// {name}.yml or {name}.json.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

var planExtensions = []string{".yaml", ".yml", ".json"}

// Load returns the first plan named name found in the loader directories.
// A plan file without a name takes the file's base name.
func (l *FileLoader) Load(name string) (*Plan, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, errors.InvalidInput("plan_name", fmt.Sprintf("%q is not a plan name", name))
	}
	for _, dir := range l.dirs {
		for _, ext := range planExtensions {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			return LoadFile(path)
		}
	}
	return nil, errors.NotFound("plan", name)
}

// LoadFile reads one plan file. JSON is accepted as YAML.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: reading %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plan: parsing %s: %w", path, err)
	}
	if p.Name == "" {
		base := filepath.Base(path)
		p.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return p, nil
}

// Parse decodes a plan from YAML or JSON.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
