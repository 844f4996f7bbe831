// Package dictionary loads the versioned word/weight tables the signal
// extractors score against. Tables are embedded in the binary and may be
// overridden per category from a directory of YAML files.
package dictionary

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"context-signals-go/internal/types"
)

//go:embed data/*.yaml
var embedded embed.FS

// Category names one of the four dictionary tables.
type Category string

const (
	Emotion    Category = "emotion"
	Urgency    Category = "urgency"
	Endings    Category = "endings"
	Politeness Category = "politeness"
)

// UnknownVersion is reported for tables that carry no version string.
const UnknownVersion = "unknown"

// Categories lists every category in load order.
func Categories() []Category {
	return []Category{Emotion, Urgency, Endings, Politeness}
}

// Entry is one scored word. Final restricts certainty entries to the
// sentence-final span.
type Entry struct {
	Word     string  `yaml:"word"`
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight"`
	Final    bool    `yaml:"final,omitempty"`
}

type EmotionTable struct {
	Version string  `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

type UrgencyTable struct {
	Version string  `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

// EndingRule is a sentence-final pattern and the politeness score it maps to.
type EndingRule struct {
	Pattern string           `yaml:"pattern"`
	Form    types.EndingForm `yaml:"form"`
	Weight  float64          `yaml:"weight"`
}

type EndingsTable struct {
	Version   string       `yaml:"version"`
	Patterns  []EndingRule `yaml:"patterns"`
	Certainty []Entry      `yaml:"certainty"`
}

type PolitenessTable struct {
	Version string  `yaml:"version"`
	Markers []Entry `yaml:"markers"`
}

// Set holds all four tables. It is read-only after Load returns.
type Set struct {
	Emotion    EmotionTable
	Urgency    UrgencyTable
	Endings    EndingsTable
	Politeness PolitenessTable
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the embedded tables, parsed once per process.
func Default() *Set {
	defaultOnce.Do(func() {
		s, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("dictionary: embedded tables are invalid: %v", err))
		}
		defaultSet = s
	})
	return defaultSet
}

// Load parses the four tables. A table is read from <dir>/<category>.yaml
// when dir is set and the file exists; otherwise the embedded copy is used.
func Load(dir string) (*Set, error) {
	s := &Set{}
	for _, c := range Categories() {
		data, err := read(dir, c)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, s.Table(c)); err != nil {
			return nil, fmt.Errorf("decode %s dictionary: %w", c, err)
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func read(dir string, c Category) ([]byte, error) {
	name := string(c) + ".yaml"
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s dictionary: %w", c, err)
		}
	}
	data, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s dictionary: %w", c, err)
	}
	return data, nil
}

// Table returns a pointer to the table for c. Unknown categories are a
// programming error and panic.
func (s *Set) Table(c Category) any {
	switch c {
	case Emotion:
		return &s.Emotion
	case Urgency:
		return &s.Urgency
	case Endings:
		return &s.Endings
	case Politeness:
		return &s.Politeness
	}
	panic(fmt.Sprintf("dictionary: unknown category %q", string(c)))
}

// Version returns the version string embedded in the table for c, or
// UnknownVersion when the table has none.
func (s *Set) Version(c Category) string {
	var v string
	switch c {
	case Emotion:
		v = s.Emotion.Version
	case Urgency:
		v = s.Urgency.Version
	case Endings:
		v = s.Endings.Version
	case Politeness:
		v = s.Politeness.Version
	default:
		panic(fmt.Sprintf("dictionary: unknown category %q", string(c)))
	}
	if v == "" {
		return UnknownVersion
	}
	return v
}

// Versions maps every category name to its version, for stamping outputs.
func (s *Set) Versions() map[string]string {
	out := make(map[string]string, len(Categories()))
	for _, c := range Categories() {
		out[string(c)] = s.Version(c)
	}
	return out
}

func (s *Set) validate() error {
	for i, e := range s.Emotion.Entries {
		if err := checkEntry(Emotion, i, e); err != nil {
			return err
		}
		cat := types.EmotionCategory(e.Category)
		if !cat.Valid() || cat == types.EmotionNeutral {
			return fmt.Errorf("emotion dictionary entry %d (%s): invalid category %q", i, e.Word, e.Category)
		}
		if e.Weight <= 0 {
			return fmt.Errorf("emotion dictionary entry %d (%s): weight must be positive", i, e.Word)
		}
	}
	for i, e := range s.Urgency.Entries {
		if err := checkEntry(Urgency, i, e); err != nil {
			return err
		}
		if e.Weight <= 0 {
			return fmt.Errorf("urgency dictionary entry %d (%s): weight must be positive", i, e.Word)
		}
	}
	for i, p := range s.Endings.Patterns {
		if p.Pattern == "" {
			return fmt.Errorf("endings dictionary pattern %d: empty pattern", i)
		}
		switch p.Form {
		case types.FormFormal, types.FormPlain, types.FormBlunt:
		default:
			return fmt.Errorf("endings dictionary pattern %d (%s): invalid form %q", i, p.Pattern, p.Form)
		}
		if math.IsNaN(p.Weight) || p.Weight < 0 || p.Weight > 1 {
			return fmt.Errorf("endings dictionary pattern %d (%s): weight must be in [0,1]", i, p.Pattern)
		}
	}
	for i, e := range s.Endings.Certainty {
		if err := checkEntry(Endings, i, e); err != nil {
			return err
		}
	}
	for i, e := range s.Politeness.Markers {
		if err := checkEntry(Politeness, i, e); err != nil {
			return err
		}
	}
	return nil
}

func checkEntry(c Category, i int, e Entry) error {
	if e.Word == "" {
		return fmt.Errorf("%s dictionary entry %d: empty word", c, i)
	}
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
		return fmt.Errorf("%s dictionary entry %d (%s): weight is not finite", c, i, e.Word)
	}
	return nil
}
