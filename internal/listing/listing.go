package listing

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
)

const DefaultPage = 1

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

var DefaultOptions = Options{DefaultPerPage: 25, MaxPerPage: 200}

type Params struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
}

// Parse reads page, per_page (or limit), sort_by and order (or sort) from the
// query string. Out-of-range values fall back to defaults instead of failing.
func Parse(r *http.Request, defaultSortBy, defaultSortOrder string, opt Options) Params {
	q := r.URL.Query()
	if opt.DefaultPerPage <= 0 {
		opt.DefaultPerPage = DefaultOptions.DefaultPerPage
	}
	if opt.MaxPerPage <= 0 {
		opt.MaxPerPage = DefaultOptions.MaxPerPage
	}

	page := atoiDefault(q.Get("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := atoiDefault(strings.TrimSpace(firstNonEmpty(q.Get("per_page"), q.Get("limit"))), opt.DefaultPerPage)
	if per < 1 {
		per = opt.DefaultPerPage
	}
	if per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}
	if page > MaxPage(per) {
		page = MaxPage(per)
	}

	sortBy := strings.TrimSpace(q.Get("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	order := strings.ToLower(strings.TrimSpace(firstNonEmpty(q.Get("order"), q.Get("sort"))))
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}

	return Params{Page: page, PerPage: per, SortBy: sortBy, SortOrder: order}
}

// MaxOffset bounds OFFSET so (page-1)*perPage cannot overflow.
const MaxOffset = math.MaxInt32

// MaxPage is the largest page whose offset stays within MaxOffset.
func MaxPage(perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	return MaxOffset/perPage + 1
}

func (p Params) Limit() int { return p.PerPage }

// Offset is clamped to [0, MaxOffset] for hand-built Params as well.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > MaxOffset/p.PerPage {
		return MaxOffset
	}
	return (p.Page - 1) * p.PerPage
}

// SafeOrderClause maps SortBy through a whitelist of columns. Unknown keys use
// defaultKey. A secondary id sort keeps pages stable.
func (p Params) SafeOrderClause(allowed map[string]string, defaultKey string) (string, error) {
	key := p.SortBy
	if key == "" {
		key = defaultKey
	}
	col, ok := allowed[key]
	if !ok {
		col, ok = allowed[defaultKey]
		if !ok {
			return "", fmt.Errorf("no valid default sort key %q", defaultKey)
		}
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}
	return "ORDER BY " + col + " " + dir + ", id " + dir, nil
}

type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func BuildMeta(total int64, p Params) Meta {
	totalPages := 0
	if total > 0 && p.PerPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}
	return Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    p.Page > 1,
		HasNext:    totalPages > 0 && p.Page < totalPages,
	}
}

// Window returns the [start, end) slice bounds of page p over n items.
func (p Params) Window(n int) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}
	end := start + p.Limit()
	if end > n {
		end = n
	}
	return start, end
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike quotes LIKE/ILIKE metacharacters so user input matches literally
// under Postgres' default backslash escape.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern is the ILIKE pattern for a substring search on s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
