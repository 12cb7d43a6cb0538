package reference

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Data is the static domain glossary grounding the summarizer's vocabulary.
// The model may only use names that appear here (plus the live council
// roster passed in separately).
type Data struct {
	Facilities []Facility `yaml:"facilities"`
	Locations  []Location `yaml:"locations"`
	// MeetingTypes map human labels to their machine-readable session codes.
	MeetingTypes   []MeetingType   `yaml:"meeting_types"`
	PoliticalTerms []PoliticalTerm `yaml:"political_terms"`
	Positions      []Position      `yaml:"positions"`
}

type Facility struct {
	Name     string `yaml:"name"`
	Kana     string `yaml:"kana"`
	Category string `yaml:"category"`
}

type Location struct {
	Name string `yaml:"name"`
	Kana string `yaml:"kana"`
	Type string `yaml:"type"`
}

type MeetingType struct {
	Name        string `yaml:"name"`
	DBValue     string `yaml:"db_value"`
	Description string `yaml:"description"`
}

type PoliticalTerm struct {
	Term        string `yaml:"term"`
	Description string `yaml:"description"`
}

type Position struct {
	Title string `yaml:"title"`
}

// Library holds the glossary loaded from disk. It is safe for concurrent
// readers; Reload swaps the data atomically.
type Library struct {
	path string

	mu   sync.RWMutex
	data Data
}

// Load reads the glossary file and returns a Library bound to it.
func Load(path string) (*Library, error) {
	l := &Library{path: path}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload re-reads the glossary file from disk.
func (l *Library) Reload() error {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read reference file: %w", err)
	}

	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse reference file: %w", err)
	}

	l.mu.Lock()
	l.data = data
	l.mu.Unlock()
	return nil
}

// Data returns a snapshot of the current glossary.
func (l *Library) Data() Data {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data
}

// Context renders the glossary excerpt injected into the summarization
// prompt, including the live council-member roster.
func (l *Library) Context(councilNames []string) string {
	d := l.Data()

	var facilities, locations, meetingTypes, positions []string
	for _, f := range d.Facilities {
		facilities = append(facilities, f.Name)
	}
	for _, loc := range d.Locations {
		locations = append(locations, loc.Name)
	}
	for _, m := range d.MeetingTypes {
		meetingTypes = append(meetingTypes, fmt.Sprintf("%s (%s)", m.Name, m.DBValue))
	}
	for _, p := range d.Positions {
		positions = append(positions, p.Title)
	}

	var terms strings.Builder
	for _, t := range d.PoliticalTerms {
		fmt.Fprintf(&terms, "%s: %s\n", t.Term, t.Description)
	}

	members := "(none on record; refer to unnamed speakers as officials)"
	if len(councilNames) > 0 {
		members = strings.Join(councilNames, ", ")
	}

	return fmt.Sprintf(`[Facilities (canonical names)] %s
[Locations (canonical names)] %s
[Meeting types] %s
[Council terminology]
%s[Positions] %s
[Council members (use ONLY names from this list)] %s
`,
		orNone(facilities), orNone(locations), orNone(meetingTypes),
		terms.String(), orNone(positions), members)
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
