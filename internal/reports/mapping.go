package reports

import (
	"encoding/json"
	"net/url"

	"github.com/mkarlsen/casefile/internal/confidential"
	"github.com/mkarlsen/casefile/pkg/query"
	"github.com/mkarlsen/casefile/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reports", "r").
	Project("id", "ID").
	Project("title", "Title").
	Project("report_type", "ReportType").
	Project("period_start", "PeriodStart").
	Project("period_end", "PeriodEnd").
	Project("content", "Content").
	Project("confidentiality_level", "Confidentiality").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "UpdatedAt", Descending: true}

// Filters contains optional filtering criteria for report queries.
type Filters struct {
	ReportType      *Type               `json:"report_type,omitempty"`
	Title           *string             `json:"title,omitempty"`
	Confidentiality *confidential.Level `json:"confidentiality_level,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ReportType", f.ReportType).
		WhereContains("Title", f.Title).
		WhereEquals("Confidentiality", f.Confidentiality)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("report_type"); v != "" {
		if t, err := ParseType(v); err == nil {
			f.ReportType = &t
		}
	}
	if v := values.Get("title"); v != "" {
		f.Title = &v
	}
	if v := values.Get("confidentiality_level"); v != "" {
		if level, err := confidential.Parse(v); err == nil {
			f.Confidentiality = &level
		}
	}

	return f
}

func scanReport(s repository.Scanner) (Report, error) {
	var (
		rep Report
		raw []byte
	)

	err := s.Scan(
		&rep.ID,
		&rep.Title,
		&rep.ReportType,
		&rep.PeriodStart,
		&rep.PeriodEnd,
		&raw,
		&rep.Confidentiality,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
	if err != nil {
		return rep, err
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rep.Content); err != nil {
			return rep, err
		}
	}
	if rep.Content.Sections == nil {
		rep.Content.Sections = []ContentSection{}
	}

	return rep, nil
}
