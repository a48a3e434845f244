package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// Page is a page-number paginated list response.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// pagination is a resolved page request.
type pagination struct {
	page  int
	limit int
}

func (p pagination) offset() int {
	return (p.page - 1) * p.limit
}

func parsePagination(c *gin.Context) (pagination, error) {
	var q types.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return pagination{}, bindError(err)
	}
	p := pagination{page: q.Page, limit: q.Limit}
	if p.page == 0 {
		p.page = 1
	}
	if p.limit == 0 {
		p.limit = defaultPageSize
	}
	if p.limit > maxPageSize {
		p.limit = maxPageSize
	}
	return p, nil
}

// newPage builds the response envelope with absolute next and previous
// links derived from the request URL.
func newPage[T any](c *gin.Context, p pagination, count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}

	if int64(p.page*p.limit) < count {
		next := pageURL(c, p.page+1)
		page.Next = &next
	}
	if p.page > 1 {
		prev := pageURL(c, p.page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme: scheme,
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
