package model

import "time"

// DefaultViewLimit is the number of resolutions granted to a code when the
// record does not set its own limit.
const DefaultViewLimit = 20

// Experience is one employment entry. Order within Portfolio.Experience is
// the order the walkthrough pages through.
type Experience struct {
	Company  string   `json:"company" yaml:"company" toml:"company"`
	Role     string   `json:"role" yaml:"role" toml:"role"`
	Location string   `json:"location" yaml:"location" toml:"location"`
	From     string   `json:"from" yaml:"from" toml:"from"`
	To       string   `json:"to" yaml:"to" toml:"to"`
	Points   []string `json:"points" yaml:"points" toml:"points"`
	Skills   []string `json:"skills" yaml:"skills" toml:"skills"`
}

// Education is one study entry.
type Education struct {
	University string   `json:"university" yaml:"university" toml:"university"`
	Course     string   `json:"course" yaml:"course" toml:"course"`
	Location   string   `json:"location" yaml:"location" toml:"location"`
	From       string   `json:"from" yaml:"from" toml:"from"`
	To         string   `json:"to" yaml:"to" toml:"to"`
	Points     []string `json:"points" yaml:"points" toml:"points"`
	Skills     []string `json:"skills" yaml:"skills" toml:"skills"`
}

// Project is one portfolio project.
type Project struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Duration    string   `json:"duration" yaml:"duration" toml:"duration"`
	Skills      []string `json:"skills" yaml:"skills" toml:"skills"`
}

// Portfolio is the document an access code resolves to.
type Portfolio struct {
	Name           string       `json:"name" yaml:"name" toml:"name"`
	Address        string       `json:"address" yaml:"address" toml:"address"`
	Phone          string       `json:"phone" yaml:"phone" toml:"phone"`
	Email          string       `json:"email" yaml:"email" toml:"email"`
	DOB            string       `json:"dob" yaml:"dob" toml:"dob"`
	Summary        string       `json:"summary" yaml:"summary" toml:"summary"`
	Experience     []Experience `json:"experience" yaml:"experience" toml:"experience"`
	Education      []Education  `json:"education" yaml:"education" toml:"education"`
	Certifications []string     `json:"certifications" yaml:"certifications" toml:"certifications"`
	Project        []Project    `json:"project" yaml:"project" toml:"project"`
}

// PortfolioRecord is a stored portfolio together with its access code and
// view accounting.
type PortfolioRecord struct {
	Code      string     `json:"code"`
	Portfolio *Portfolio `json:"portfolio"`
	ViewLimit int        `json:"view_limit"`
	ViewCount int        `json:"view_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AvailableViews returns how many resolutions remain for the record. It is
// informational only and never blocks a resolution.
func (r *PortfolioRecord) AvailableViews() int {
	limit := r.ViewLimit
	if limit <= 0 {
		limit = DefaultViewLimit
	}
	if n := limit - r.ViewCount; n > 0 {
		return n
	}
	return 0
}

// PortfolioSummary is the listing row returned to operators.
type PortfolioSummary struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ViewLimit int       `json:"view_limit"`
	ViewCount int       `json:"view_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary returns the listing row for the record.
func (r *PortfolioRecord) Summary() PortfolioSummary {
	s := PortfolioSummary{
		Code:      r.Code,
		ViewLimit: r.ViewLimit,
		ViewCount: r.ViewCount,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Portfolio != nil {
		s.Name = r.Portfolio.Name
	}
	return s
}
