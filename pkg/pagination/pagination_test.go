package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/mkarlsen/casefile/pkg/pagination"
)

var cfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"zero values", 0, 0, 1, 20},
		{"negative page", -5, 10, 1, 10},
		{"oversized page size", 1, 500, 1, 100},
		{"valid", 3, 50, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(cfg)
			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d",
					req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "15")
	values.Set("search", "hello")
	values.Set("sort", "-created_at")

	req := pagination.FromQuery(values, cfg)

	if req.Page != 2 || req.PageSize != 15 {
		t.Errorf("got page=%d size=%d", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "hello" {
		t.Errorf("got search %v", req.Search)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "created_at" || !req.Sort[0].Descending {
		t.Errorf("got sort %v", req.Sort)
	}
}

func TestFromQueryEmpty(t *testing.T) {
	req := pagination.FromQuery(url.Values{}, cfg)

	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("got page=%d size=%d", req.Page, req.PageSize)
	}
	if req.Search != nil {
		t.Errorf("expected nil search, got %v", req.Search)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		var s pagination.SortFields
		if err := json.Unmarshal([]byte(`"title,-created_at"`), &s); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if len(s) != 2 || s[0].Field != "title" || !s[1].Descending {
			t.Errorf("got %v", s)
		}
	})

	t.Run("array form", func(t *testing.T) {
		var s pagination.SortFields
		data := `[{"Field": "title", "Descending": true}]`
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if len(s) != 1 || s[0].Field != "title" || !s[0].Descending {
			t.Errorf("got %v", s)
		}
	})
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		pageSize   int
		wantPages  int
	}{
		{"exact division", 40, 20, 2},
		{"remainder", 41, 20, 3},
		{"empty", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantPages {
				t.Errorf("got %d pages, want %d", result.TotalPages, tt.wantPages)
			}
		})
	}
}

func TestNewPageResultNilData(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 20)
	if result.Data == nil {
		t.Error("expected non-nil data slice")
	}
}
