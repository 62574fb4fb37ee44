// File: internal/waitlist/query.go
package waitlist

import "strings"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListQuery selects a page of waitlist entries.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	UserType string
}

// Normalize fills defaults for non-positive page and limit.
func (q ListQuery) Normalize() ListQuery {
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// ServiceTypeFilter returns the service type selected by q.UserType, if any.
func (q ListQuery) ServiceTypeFilter() (ServiceType, bool) {
	if q.UserType == "" || q.UserType == UserTypeAll {
		return "", false
	}
	return ServiceTypeForUserType(q.UserType), true
}

// Pagination describes one page of a filtered list.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for total items.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = total / limit
		if total%limit != 0 {
			totalPages++
		}
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Page is a slice of entries together with its pagination.
type Page struct {
	Items      []Entry    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Matches reports whether e passes the search and user type filters of q.
func (q ListQuery) Matches(e Entry) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(e.Contact), strings.ToLower(q.Search)) {
		return false
	}
	if st, ok := q.ServiceTypeFilter(); ok && e.ServiceType != st {
		return false
	}
	return true
}

// FilterAndPaginate applies q to an already fetched list. Order is preserved, so
// page 2 with limit 10 always holds items 11-20 of the filtered set.
func FilterAndPaginate(entries []Entry, q ListQuery) Page {
	q = q.Normalize()

	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q.Matches(e) {
			filtered = append(filtered, e)
		}
	}

	total := len(filtered)
	// Bounds are computed without multiplying page by limit so huge values cannot overflow.
	start := total
	if q.Page-1 <= total/q.Limit {
		start = min((q.Page-1)*q.Limit, total)
	}
	end := start + min(q.Limit, total-start)

	return Page{
		Items:      filtered[start:end],
		Pagination: NewPagination(q.Page, q.Limit, total),
	}
}
