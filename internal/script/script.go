package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects how a demo's visible lines are rendered.
type Kind string

const (
	KindTerminal Kind = "terminal"
	KindChat     Kind = "chat"
	KindChart    Kind = "chart"
)

// Script is a named, ordered sequence of lines. Lines must be treated as
// immutable once the script has been handed to a sequencer.
type Script struct {
	Name   string `yaml:"name"`
	Title  string `yaml:"title,omitempty"`
	Kind   Kind   `yaml:"kind,omitempty"`
	Lines  []Line `yaml:"lines"`
	Source string `yaml:"-"` // file path or "builtin"
}

// Len returns the number of lines in the script.
func (s Script) Len() int { return len(s.Lines) }

// DisplayTitle returns Title, falling back to Name.
func (s Script) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// Load reads a single YAML script file. Unknown fields are rejected so
// typos in hand-written scripts surface immediately.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("script: open %s: %w", path, err)
	}
	s, err := decode(data)
	if err != nil {
		return Script{}, fmt.Errorf("script: decode %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.Source = path
	return s, nil
}

func decode(data []byte) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, err
	}
	switch s.Kind {
	case "":
		s.Kind = KindTerminal
	case KindTerminal, KindChat, KindChart:
	default:
		return Script{}, fmt.Errorf("unknown kind %q (want terminal, chat or chart)", s.Kind)
	}
	return s, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, ordered by file name.
// A missing directory yields no scripts and no error.
func LoadDir(dir string) ([]Script, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("script: read dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scripts := make([]Script, 0, len(names))
	for _, name := range names {
		s, loadErr := Load(filepath.Join(dir, name))
		if loadErr != nil {
			return nil, loadErr
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// Find returns the script with the given name.
func Find(scripts []Script, name string) (Script, bool) {
	for _, s := range scripts {
		if s.Name == name {
			return s, true
		}
	}
	return Script{}, false
}

// Names returns the script names in order.
func Names(scripts []Script) []string {
	names := make([]string, len(scripts))
	for i, s := range scripts {
		names[i] = s.Name
	}
	return names
}
