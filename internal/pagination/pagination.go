// Package pagination turns per_page/page request parameters into a clamped
// page window over a counted result set.
package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPerPage = 3
	MinPerPage     = 1
	MaxPerPage     = 100
)

// Params are the raw, unclamped values requested by the client.
type Params struct {
	PerPage int
	Page    int
	// Paged is true when the request named a page explicitly.
	Paged bool
}

// ParseQuery reads per_page and page. Missing or non-numeric values fall back
// to the defaults; range clamping happens in New.
func ParseQuery(q url.Values) Params {
	p := Params{PerPage: DefaultPerPage, Page: 1}

	if raw := strings.TrimSpace(q.Get("per_page")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			p.PerPage = v
		}
	}
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		p.Paged = true
		if v, err := strconv.Atoi(raw); err == nil {
			p.Page = v
		}
	}
	return p
}

// ClampPerPage limits a page size to [MinPerPage, MaxPerPage].
func ClampPerPage(perPage int) int {
	switch {
	case perPage < MinPerPage:
		return MinPerPage
	case perPage > MaxPerPage:
		return MaxPerPage
	default:
		return perPage
	}
}

// Page is a window over a result set of Total items.
type Page struct {
	Number   int `json:"number"`
	PerPage  int `json:"per_page"`
	NumPages int `json:"num_pages"`
	Total    int `json:"total"`
}

// New clamps the requested size and number against total. NumPages is at
// least 1 so that an empty result set still has a valid first page.
func New(p Params, total int) Page {
	perPage := ClampPerPage(p.PerPage)
	if total < 0 {
		total = 0
	}

	numPages := (total + perPage - 1) / perPage
	if numPages < 1 {
		numPages = 1
	}

	number := p.Page
	if number < 1 {
		number = 1
	} else if number > numPages {
		number = numPages
	}

	return Page{Number: number, PerPage: perPage, NumPages: numPages, Total: total}
}

// Offset is the number of items preceding this page.
func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }

// Limit is the page size.
func (p Page) Limit() int { return p.PerPage }

func (p Page) HasNext() bool     { return p.Number < p.NumPages }
func (p Page) HasPrevious() bool { return p.Number > 1 }

// NextPageNumber returns the following page, or 0 when on the last page.
func (p Page) NextPageNumber() int {
	if !p.HasNext() {
		return 0
	}
	return p.Number + 1
}

// PreviousPageNumber returns the preceding page, or 0 when on the first page.
func (p Page) PreviousPageNumber() int {
	if !p.HasPrevious() {
		return 0
	}
	return p.Number - 1
}

// Result pairs a page window with its items.
type Result[T any] struct {
	Items []T
	Page  Page
}
