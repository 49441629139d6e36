package bd

import (
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"maintenance-system/pkg/types"
)

// Schema describes how a searchable table is exposed to clients.
type Schema struct {
	Table string
	// Columns maps client field names to SQL columns. Fields missing here are
	// ignored by the search.
	Columns     map[string]string
	TextFields  []string
	DefaultSort string
	// CompanyColumn and DeletedColumn, when set, scope every query to the
	// caller's company and hide soft-deleted rows.
	CompanyColumn string
	DeletedColumn string
}

func (s Schema) Column(field string) (string, bool) {
	col, ok := s.Columns[field]
	return col, ok
}

// Scope returns the conditions every query on the schema must carry.
func (s Schema) Scope(companyID uint64) sq.And {
	and := sq.And{}
	if s.CompanyColumn != "" {
		and = append(and, sq.Eq{s.CompanyColumn: companyID})
	}
	if s.DeletedColumn != "" {
		and = append(and, sq.Eq{s.DeletedColumn: nil})
	}
	return and
}

// ApplyFilters adds one WHERE clause per filter field the schema knows.
func ApplyFilters(builder sq.SelectBuilder, criteria types.SearchCriteria, schema Schema) sq.SelectBuilder {
	for _, f := range criteria.FilterFields {
		if cond, ok := Condition(f, schema); ok {
			builder = builder.Where(cond)
		}
	}
	return builder
}

// ApplyPaging adds ORDER BY, LIMIT and OFFSET.
func ApplyPaging(builder sq.SelectBuilder, criteria types.SearchCriteria, schema Schema) sq.SelectBuilder {
	sortCol := schema.DefaultSort
	if col, ok := schema.Column(criteria.SortField); ok && criteria.SortField != "" {
		sortCol = col
	}
	dir := "DESC"
	if strings.EqualFold(string(criteria.Direction), string(types.DirectionAsc)) {
		dir = "ASC"
	}
	if sortCol != "" {
		builder = builder.OrderBy(fmt.Sprintf("%s %s", sortCol, dir))
	}

	if criteria.PageSize > 0 {
		builder = builder.Limit(uint64(criteria.PageSize)).Offset(criteria.Offset())
	}
	return builder
}

// Condition translates a filter and its alternatives. Alternatives are OR-ed
// with the primary condition.
func Condition(f types.FilterField, schema Schema) (sq.Sqlizer, bool) {
	primary, ok := single(f, schema)
	if len(f.Alternatives) == 0 {
		return primary, ok
	}

	or := sq.Or{}
	if ok {
		or = append(or, primary)
	}
	for _, alt := range f.Alternatives {
		if cond, ok := single(alt, schema); ok {
			or = append(or, cond)
		}
	}
	switch len(or) {
	case 0:
		return nil, false
	case 1:
		return or[0], true
	}
	return or, true
}

func single(f types.FilterField, schema Schema) (sq.Sqlizer, bool) {
	col, ok := schema.Column(f.Field)
	if !ok {
		return nil, false
	}

	value := normalize(f.Value)
	values := make([]interface{}, 0, len(f.Values))
	for _, v := range f.Values {
		values = append(values, normalize(v))
	}

	switch f.Operation {
	case types.OpEqual, "":
		if value == nil && len(values) > 0 {
			return sq.Eq{col: values}, true
		}
		return sq.Eq{col: value}, true
	case types.OpNotEqual:
		return sq.NotEq{col: value}, true
	case types.OpContains:
		if value == nil {
			return nil, false
		}
		return sq.ILike{col + "::text": "%" + escapeLike(fmt.Sprint(value)) + "%"}, true
	case types.OpIn:
		return sq.Eq{col: values}, true
	case types.OpNotIn:
		return sq.NotEq{col: values}, true
	case types.OpGreater:
		return sq.Gt{col: value}, true
	case types.OpGreaterOrEqual:
		return sq.GtOrEq{col: value}, true
	case types.OpLess:
		return sq.Lt{col: value}, true
	case types.OpLessOrEqual:
		return sq.LtOrEq{col: value}, true
	case types.OpIsNull:
		return sq.Eq{col: nil}, true
	case types.OpIsNotNull:
		return sq.NotEq{col: nil}, true
	}
	return nil, false
}

// normalize turns whole JSON numbers into int64 so they bind to integer
// columns.
func normalize(v interface{}) interface{} {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
