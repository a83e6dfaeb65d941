// Package data loads the external content tables: names/cultures,
// backgrounds, event templates, and locations. Every table has a
// built-in minimal fallback of the same shape, so loading never fails
// and simulation startup never depends on files being present.
package data

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Culture is one name-generation group with a selection weight.
type Culture struct {
	Name        string   `yaml:"name"`
	Weight      float64  `yaml:"weight"`
	MaleNames   []string `yaml:"male_names"`
	FemaleNames []string `yaml:"female_names"`
	Surnames    []string `yaml:"surnames"`
}

// Background is one profession: starting skills, daily activities, and
// how common it is in the spawn roll.
type Background struct {
	Name       string         `yaml:"name"`
	Skills     map[string]int `yaml:"skills"`
	Activities []string       `yaml:"daily_activities"`
	Rarity     float64        `yaml:"rarity"` // selection weight, higher = more common
}

// EffectSpec is one effect row of an event template.
type EffectSpec struct {
	Type     string  `yaml:"type"`   // mood | health | resource | skill
	Target   string  `yaml:"target"` // all | participants (mood only)
	Resource string  `yaml:"resource,omitempty"`
	Skill    string  `yaml:"skill,omitempty"`
	Modifier float64 `yaml:"modifier"`
}

// EventTemplate is one narrative event candidate.
type EventTemplate struct {
	Template     string             `yaml:"template"`
	Participants int                `yaml:"participants"`
	Effects      []EffectSpec       `yaml:"effects"`
	Requirements map[string]float64 `yaml:"requirements,omitempty"` // resource minimums
}

// Location is a settlement/terrain flavor entry.
type Location struct {
	Name        string `yaml:"name"`
	Terrain     string `yaml:"terrain"`
	Description string `yaml:"description"`
}

// Tables aggregates all loaded content.
type Tables struct {
	Cultures    []Culture
	Backgrounds []Background
	Events      map[string][]EventTemplate // keyed by category
	Locations   []Location
}

// Load reads the tables from dir. Any table that is missing or
// malformed is replaced by its built-in fallback; Load itself cannot
// fail. An empty dir loads the fallbacks directly.
func Load(dir string) *Tables {
	t := &Tables{
		Cultures:    builtinCultures(),
		Backgrounds: builtinBackgrounds(),
		Events:      builtinEvents(),
		Locations:   builtinLocations(),
	}
	if dir == "" {
		return t
	}

	var cultures struct {
		Cultures []Culture `yaml:"cultures"`
	}
	if err := loadYAML(filepath.Join(dir, "names.yaml"), &cultures); err != nil {
		slog.Warn("name table unavailable, using built-in", "error", err)
	} else if len(cultures.Cultures) > 0 {
		t.Cultures = cultures.Cultures
	}

	var backgrounds struct {
		Backgrounds []Background `yaml:"backgrounds"`
	}
	if err := loadYAML(filepath.Join(dir, "backgrounds.yaml"), &backgrounds); err != nil {
		slog.Warn("background table unavailable, using built-in", "error", err)
	} else if len(backgrounds.Backgrounds) > 0 {
		t.Backgrounds = backgrounds.Backgrounds
	}

	var events struct {
		Events map[string][]EventTemplate `yaml:"events"`
	}
	if err := loadYAML(filepath.Join(dir, "events.yaml"), &events); err != nil {
		slog.Warn("event table unavailable, using built-in", "error", err)
	} else if len(events.Events) > 0 {
		t.Events = events.Events
	}

	var locations struct {
		Locations []Location `yaml:"locations"`
	}
	if err := loadYAML(filepath.Join(dir, "locations.yaml"), &locations); err != nil {
		slog.Warn("location table unavailable, using built-in", "error", err)
	} else if len(locations.Locations) > 0 {
		t.Locations = locations.Locations
	}

	return t
}

func loadYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// BackgroundByName finds a background table entry.
func (t *Tables) BackgroundByName(name string) (Background, bool) {
	for _, b := range t.Backgrounds {
		if b.Name == name {
			return b, true
		}
	}
	return Background{}, false
}
