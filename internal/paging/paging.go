// Package paging builds page descriptors and prev/current/next links
// for paginated collection responses.
package paging

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

// ErrInvalidPage is returned for a non-positive page or limit.
var ErrInvalidPage = errors.New("page and limit must be positive integers")

const (
	RelPrev    = "prev"
	RelCurrent = "current"
	RelNext    = "next"
)

// Descriptor describes where a page sits in the whole collection.
// Next and Previous are nil at the respective boundary.
type Descriptor struct {
	TotalItems int64 `json:"total_items"`
	PageSize   int   `json:"page_size"`
	Current    int   `json:"current"`
	Count      int   `json:"count"`
	Next       *int  `json:"next,omitempty"`
	Previous   *int  `json:"previous,omitempty"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type Page[T any] struct {
	Payload []T        `json:"payload"`
	Paging  Descriptor `json:"paging"`
	Links   []Link     `json:"links"`
}

// Offset returns the number of rows to skip for page/limit. A page so far
// out that the offset would overflow is rejected like a non-positive one.
func Offset(page, limit int) (int, error) {
	if page <= 0 || limit <= 0 {
		return 0, ErrInvalidPage
	}
	if page-1 > math.MaxInt/limit {
		return 0, ErrInvalidPage
	}
	return (page - 1) * limit, nil
}

// Paginate wraps items with a descriptor and navigation links built from
// baseURL. Only the "page" query parameter is rewritten in the links.
func Paginate[T any](items []T, total int64, page, limit int, baseURL string) (Page[T], error) {
	if page <= 0 || limit <= 0 {
		return Page[T]{}, ErrInvalidPage
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return Page[T]{}, fmt.Errorf("paging base url: %w", err)
	}
	if items == nil {
		items = []T{}
	}

	d := Descriptor{
		TotalItems: total,
		PageSize:   limit,
		Current:    page,
		Count:      len(items),
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	if totalPages > int64(page) {
		next := page + 1
		d.Next = &next
	}
	if page > 1 {
		prev := page - 1
		d.Previous = &prev
	}

	links := make([]Link, 0, 3)
	if d.Previous != nil {
		links = append(links, link(base, *d.Previous, RelPrev))
	}
	links = append(links, link(base, page, RelCurrent))
	if d.Next != nil {
		links = append(links, link(base, *d.Next, RelNext))
	}

	return Page[T]{Payload: items, Paging: d, Links: links}, nil
}

// Map converts the payload of p, keeping paging and links.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Payload))
	for i := range p.Payload {
		out[i] = fn(p.Payload[i])
	}
	return Page[U]{Payload: out, Paging: p.Paging, Links: p.Links}
}

func link(base *url.URL, page int, rel string) Link {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return Link{Href: u.String(), Rel: rel, Method: http.MethodGet}
}
