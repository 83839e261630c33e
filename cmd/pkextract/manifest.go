package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spetersoncode/pkextract/pipeline"
	"github.com/spetersoncode/pkextract/table"
)

// Extraction kinds.
const (
	KindPKSummary   = "pk_summary"
	KindPEStudyInfo = "pe_study_info"
)

// Manifest lists the tables of a batch.
//
//	kind: pk_summary
//	output: out
//	tables:
//	  - id: PMC123/table2
//	    file: tables/pmc123_t2.md
//	    caption: Table 2. Pharmacokinetic parameters
//	  - id: inline
//	    markdown: |
//	      | Parameter | Mean |
//	      |---|---|
//	      | Cmax | 4.2 |
type Manifest struct {
	Kind   string  `yaml:"kind"`
	Output string  `yaml:"output"`
	Tables []Entry `yaml:"tables"`
}

// Entry is one table of a manifest. Exactly one of File and Markdown is set.
type Entry struct {
	ID       string `yaml:"id"`
	File     string `yaml:"file"`
	Markdown string `yaml:"markdown"`
	Caption  string `yaml:"caption"`
	Footnote string `yaml:"footnote"`
}

// LoadManifest reads and validates a manifest. Relative paths inside it are
// resolved against its directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if m.Output == "" {
		m.Output = "out"
	}
	if !filepath.IsAbs(m.Output) {
		m.Output = filepath.Join(dir, m.Output)
	}
	for i := range m.Tables {
		if f := m.Tables[i].File; f != "" && !filepath.IsAbs(f) {
			m.Tables[i].File = filepath.Join(dir, f)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the kind and the table entries, filling default ids.
func (m *Manifest) Validate() error {
	switch m.Kind {
	case "":
		m.Kind = KindPKSummary
	case KindPKSummary, KindPEStudyInfo:
	default:
		return fmt.Errorf("unknown kind: %s (must be %s or %s)", m.Kind, KindPKSummary, KindPEStudyInfo)
	}
	if len(m.Tables) == 0 {
		return errors.New("no tables")
	}

	seen := make(map[string]bool, len(m.Tables))
	for i := range m.Tables {
		e := &m.Tables[i]
		if (e.File == "") == (strings.TrimSpace(e.Markdown) == "") {
			return fmt.Errorf("table %d: set exactly one of file and markdown", i)
		}
		if e.ID == "" {
			e.ID = defaultID(e, i)
		}
		if seen[e.ID] {
			return fmt.Errorf("table %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

func defaultID(e *Entry, i int) string {
	if e.File != "" {
		return strings.TrimSuffix(filepath.Base(e.File), filepath.Ext(e.File))
	}
	return fmt.Sprintf("table_%d", i)
}

// Inputs loads every table. Entries that cannot be read or parsed are
// returned as failures instead of aborting the batch.
func (m *Manifest) Inputs() ([]pipeline.Input, []pipeline.Failure) {
	var inputs []pipeline.Input
	var failures []pipeline.Failure
	for _, e := range m.Tables {
		md := e.Markdown
		if e.File != "" {
			data, err := os.ReadFile(e.File)
			if err != nil {
				failures = append(failures, pipeline.Failure{ID: e.ID, Err: err})
				continue
			}
			md = string(data)
		}
		t, err := table.ParseMarkdown(md)
		if err != nil {
			failures = append(failures, pipeline.Failure{ID: e.ID, Err: err})
			continue
		}
		inputs = append(inputs, pipeline.Input{
			ID:       e.ID,
			Table:    t,
			Caption:  e.Caption,
			Footnote: e.Footnote,
		})
	}
	return inputs, failures
}
