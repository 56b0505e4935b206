// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package paging builds page links for list views.
package paging

import (
	"net/http"
	"net/url"
	"strconv"
)

// window is how many numbered links surround the current page.
const window = 5

// Pager holds the links of one paginated list.
type Pager struct {
	Current    int
	TotalPages int
	TotalItems int
	PerPage    int
	PrevURL    string
	NextURL    string
	Links      []Link
}

// Link is a single page link. Gap links render as an ellipsis.
type Link struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// New builds a pager for page of totalItems. Every query parameter of base
// except "page" is kept on the generated links.
func New(page, totalItems, perPage int, base string, query url.Values) Pager {
	totalPages := TotalPages(totalItems, perPage)
	page = Clamp(page, totalPages)

	params := make(url.Values)
	for k, v := range query {
		if k != "page" && len(v) > 0 && v[0] != "" {
			params[k] = v
		}
	}
	pageURL := func(n int) string {
		p := make(url.Values, len(params)+1)
		for k, v := range params {
			p[k] = v
		}
		p.Set("page", strconv.Itoa(n))
		return base + "?" + p.Encode()
	}

	p := Pager{
		Current:    page,
		TotalPages: totalPages,
		TotalItems: totalItems,
		PerPage:    perPage,
		Links:      links(page, totalPages, pageURL),
	}
	if page > 1 {
		p.PrevURL = pageURL(page - 1)
	}
	if page < totalPages {
		p.NextURL = pageURL(page + 1)
	}
	return p
}

// Show reports whether there is more than one page.
func (p Pager) Show() bool {
	return p.TotalPages > 1
}

// Offset is the index of the first item on the current page.
func (p Pager) Offset() int {
	return (p.Current - 1) * p.PerPage
}

// links numbers a window around current and always includes the first and
// last pages.
func links(current, total int, pageURL func(int) string) []Link {
	start := current - window/2
	end := current + window/2
	if start < 1 {
		start = 1
		end = window
	}
	if end > total {
		end = total
		start = max(end-window+1, 1)
	}

	var out []Link
	if start > 1 {
		out = append(out, Link{Number: 1, URL: pageURL(1)})
		if start > 2 {
			out = append(out, Link{Gap: true})
		}
	}
	for i := start; i <= end; i++ {
		out = append(out, Link{Number: i, URL: pageURL(i), Current: i == current})
	}
	if end < total {
		if end < total-1 {
			out = append(out, Link{Gap: true})
		}
		out = append(out, Link{Number: total, URL: pageURL(total)})
	}
	return out
}

// TotalPages returns the page count for totalItems, never less than 1.
func TotalPages(totalItems, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	return max((totalItems+perPage-1)/perPage, 1)
}

// Clamp keeps page within [1, totalPages].
func Clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageParam parses the "page" query parameter. Missing or invalid values
// yield 1.
func PageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
