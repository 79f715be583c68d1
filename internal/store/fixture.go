package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/folio/internal/model"
)

// Fixture is a seed file for a store. Access lists codes that are known to
// be rejected and are used by tests that exercise the gate.
type Fixture struct {
	Access   FixtureAccess    `json:"access" yaml:"access" toml:"access"`
	Profiles []FixtureProfile `json:"profiles" yaml:"profiles" toml:"profiles"`
}

// FixtureAccess holds codes expected to fail resolution.
type FixtureAccess struct {
	InvalidFormatCodes []string `json:"invalidFormatCodes" yaml:"invalidFormatCodes" toml:"invalidFormatCodes"`
	NotFoundCodes      []string `json:"notFoundCodes" yaml:"notFoundCodes" toml:"notFoundCodes"`
}

// FixtureProfile is one seeded code and its document.
type FixtureProfile struct {
	Code      string          `json:"code" yaml:"code" toml:"code"`
	ViewLimit int             `json:"view_limit,omitempty" yaml:"view_limit,omitempty" toml:"view_limit,omitempty"`
	Portfolio model.Portfolio `json:"portfolio" yaml:"portfolio" toml:"portfolio"`
}

// LoadFixture reads a fixture file. The format is chosen by extension:
// .json, .toml, .yaml or .yml.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	f, err := ParseFixture(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f, nil
}

// ParseFixture decodes fixture data in the format named by ext.
func ParseFixture(data []byte, ext string) (*Fixture, error) {
	var f Fixture
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported fixture format %q", ext)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every profile and rejects duplicate codes.
func (f *Fixture) Validate() error {
	seen := make(map[string]bool, len(f.Profiles))
	for i, p := range f.Profiles {
		rec := p.Record()
		if err := model.ValidateRecord(rec); err != nil {
			return fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if seen[rec.Code] {
			return fmt.Errorf("profiles[%d]: duplicate code %q", i, p.Code)
		}
		seen[rec.Code] = true
	}
	return nil
}

// Record converts the profile to a store record with a normalized code.
func (p FixtureProfile) Record() *model.PortfolioRecord {
	doc := p.Portfolio
	limit := p.ViewLimit
	if limit <= 0 {
		limit = model.DefaultViewLimit
	}
	return &model.PortfolioRecord{
		Code:      model.NormalizeCode(p.Code),
		Portfolio: &doc,
		ViewLimit: limit,
	}
}

// Records returns a record per profile, in file order.
func (f *Fixture) Records() []*model.PortfolioRecord {
	recs := make([]*model.PortfolioRecord, 0, len(f.Profiles))
	for _, p := range f.Profiles {
		recs = append(recs, p.Record())
	}
	return recs
}
