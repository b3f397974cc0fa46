package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Options declares what a list endpoint accepts. Sortable maps the public
// sort key to its column; anything else falls back to DefaultSort.
// Tiebreak columns follow the sort column in the same direction and must end
// with a unique one; it defaults to id.
type Options struct {
	Sortable    map[string]string
	DefaultSort string
	DefaultDesc bool
	Searchable  []string
	Tiebreak    []string
}

type Params struct {
	Page     int
	PageSize int
	Sort     string
	Desc     bool
	Search   string

	column     string
	tiebreak   []string
	searchable []string
}

func FromQuery(c *gin.Context, opts Options) Params {
	p := Params{
		Page:       atoiDefault(c.Query("page"), 1),
		PageSize:   atoiDefault(c.Query("pageSize"), DefaultPageSize),
		Search:     strings.TrimSpace(c.Query("search")),
		searchable: opts.Searchable,
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	def := opts.DefaultSort
	if def == "" {
		def = "id"
	}

	p.Sort = c.Query("sort")
	col, ok := opts.Sortable[p.Sort]
	if !ok {
		p.Sort = def
		col = def
		if mapped, ok := opts.Sortable[def]; ok {
			col = mapped
		}
	}
	p.column = col

	p.tiebreak = opts.Tiebreak
	if len(p.tiebreak) == 0 {
		p.tiebreak = []string{"id"}
	}

	switch strings.ToLower(c.Query("dir")) {
	case "asc":
		p.Desc = false
	case "desc":
		p.Desc = true
	default:
		p.Desc = opts.DefaultDesc
	}

	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Filter applies the search term as a case-insensitive LIKE over every
// searchable column.
func (p Params) Filter(q *gorm.DB) *gorm.DB {
	if p.Search == "" || len(p.searchable) == 0 {
		return q
	}
	term := "%" + strings.ToLower(p.Search) + "%"
	conds := make([]string, 0, len(p.searchable))
	args := make([]any, 0, len(p.searchable))
	for _, col := range p.searchable {
		conds = append(conds, "LOWER("+col+") LIKE ?")
		args = append(args, term)
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// OrderColumns is the sort column followed by the tiebreak columns, without
// repeats.
func (p Params) OrderColumns() []string {
	cols := []string{p.column}
	for _, col := range p.tiebreak {
		if col != p.column {
			cols = append(cols, col)
		}
	}
	return cols
}

// Apply adds order, limit and offset.
func (p Params) Apply(q *gorm.DB) *gorm.DB {
	for _, col := range p.OrderColumns() {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col, Raw: strings.Contains(col, ".")}, Desc: p.Desc})
	}
	return q.Limit(p.PageSize).Offset(p.Offset())
}

// Result is the list envelope returned by every paginated endpoint.
type Result[T any] struct {
	Data     []T   `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// Run counts the filtered query, then fetches one page of it.
func Run[T any](q *gorm.DB, p Params) (Result[T], error) {
	q = p.Filter(q)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Result[T]{}, err
	}

	rows := make([]T, 0, p.PageSize)
	if err := p.Apply(q.Session(&gorm.Session{})).Find(&rows).Error; err != nil {
		return Result[T]{}, err
	}

	return Result[T]{Data: rows, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
