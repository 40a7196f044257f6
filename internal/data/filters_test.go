package data

import (
	"testing"
	"time"

	"BowlingLeagueApi/internal/assert"
	"BowlingLeagueApi/internal/validator"
)

func TestCalculateMetadata(t *testing.T) {
	tests := []struct {
		name                  string
		total, page, pageSize int
		want                  Metadata
	}{
		{name: "Empty", total: 0, page: 1, pageSize: 20, want: Metadata{}},
		{name: "Partial Last Page", total: 41, page: 2, pageSize: 20,
			want: Metadata{CurrentPage: 2, PageSize: 20, FirstPage: 1, LastPage: 3, TotalRecords: 41}},
		{name: "Exact Pages", total: 40, page: 1, pageSize: 20,
			want: Metadata{CurrentPage: 1, PageSize: 20, FirstPage: 1, LastPage: 2, TotalRecords: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, calculateMetadata(tt.total, tt.page, tt.pageSize), tt.want)
		})
	}
}

func TestFiltersSort(t *testing.T) {
	f := Filters{Page: 3, PageSize: 10, Sort: "-date", SortSafeList: []string{"date", "-date"}}

	assert.Equal(t, f.sortColumn(), "date")
	assert.Equal(t, f.sortDirection(), "DESC")
	assert.Equal(t, f.limit(), 10)
	assert.Equal(t, f.offset(), 20)
}

func TestValidateMatchFilter(t *testing.T) {
	after := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	before := after.AddDate(0, 0, -1)
	base := Filters{Page: 1, PageSize: 20, Sort: "date", SortSafeList: []string{"date"}}

	tests := []struct {
		name    string
		filter  MatchFilter
		wantKey string
	}{
		{name: "Valid", filter: MatchFilter{Status: "finished", Filters: base}},
		{name: "Bad Status", filter: MatchFilter{Status: "paused", Filters: base}, wantKey: "status"},
		{name: "Inverted Dates", filter: MatchFilter{
			Dates: DateRange{AfterDate: &after, BeforeDate: &before}, Filters: base}, wantKey: "before_date"},
		{name: "Bad Sort", filter: MatchFilter{Filters: Filters{Page: 1, PageSize: 20, Sort: "pins",
			SortSafeList: []string{"date"}}}, wantKey: "sort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateMatchFilter(v, tt.filter)
			if tt.wantKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			_, ok := v.Errors[tt.wantKey]
			assert.Equal(t, ok, true)
		})
	}
}
