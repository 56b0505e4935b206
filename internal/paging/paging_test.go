// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package paging

import (
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestNewKeepsFilters(t *testing.T) {
	q := url.Values{"tab": {"activity"}, "page": {"2"}, "empty": {""}}
	p := New(2, 120, 50, "/admin", q)

	if p.Current != 2 || p.TotalPages != 3 {
		t.Fatalf("Current/TotalPages = %d/%d, want 2/3", p.Current, p.TotalPages)
	}
	if p.PrevURL != "/admin?page=1&tab=activity" {
		t.Errorf("PrevURL = %q", p.PrevURL)
	}
	if p.NextURL != "/admin?page=3&tab=activity" {
		t.Errorf("NextURL = %q", p.NextURL)
	}
	if !p.Show() {
		t.Error("Show() = false, want true")
	}
	if p.Offset() != 50 {
		t.Errorf("Offset() = %d, want 50", p.Offset())
	}
}

func TestNewSinglePage(t *testing.T) {
	p := New(7, 0, 50, "/admin", nil)
	if p.Current != 1 || p.TotalPages != 1 {
		t.Errorf("Current/TotalPages = %d/%d, want 1/1", p.Current, p.TotalPages)
	}
	if p.Show() || p.PrevURL != "" || p.NextURL != "" {
		t.Errorf("single page pager = %+v", p)
	}
}

func TestLinks(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int // 0 marks a gap
	}{
		{"short", 1, 3, []int{1, 2, 3}},
		{"start", 1, 10, []int{1, 2, 3, 4, 5, 0, 10}},
		{"middle", 6, 12, []int{1, 0, 4, 5, 6, 7, 8, 0, 12}},
		{"end", 10, 10, []int{1, 0, 6, 7, 8, 9, 10}},
		{"near start", 4, 10, []int{1, 2, 3, 4, 5, 6, 0, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := links(tt.current, tt.total, func(n int) string { return "" })
			if len(got) != len(tt.want) {
				t.Fatalf("got %d links %+v, want %v", len(got), got, tt.want)
			}
			for i, w := range tt.want {
				if w == 0 {
					if !got[i].Gap {
						t.Errorf("link %d = %+v, want gap", i, got[i])
					}
					continue
				}
				if got[i].Number != w || got[i].Current != (w == tt.current) {
					t.Errorf("link %d = %+v, want %d", i, got[i], w)
				}
			}
		})
	}
}

func TestPageParam(t *testing.T) {
	tests := map[string]int{"": 1, "?page=3": 3, "?page=0": 1, "?page=-2": 1, "?page=x": 1}
	for query, want := range tests {
		r := httptest.NewRequest("GET", "/admin"+query, nil)
		if got := PageParam(r); got != want {
			t.Errorf("PageParam(%q) = %d, want %d", query, got, want)
		}
	}
}
