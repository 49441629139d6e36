package types

import "strings"

// MergeFilterFields drops every entry of existing whose field is present in
// incoming and appends incoming after the survivors. Neither input is
// modified. The last caller's value for a field always wins, and merging the
// same update twice gives the same result as merging it once.
func MergeFilterFields(existing, incoming []FilterField) []FilterField {
	replaced := make(map[string]struct{}, len(incoming))
	for _, f := range incoming {
		replaced[f.Field] = struct{}{}
	}

	merged := make([]FilterField, 0, len(existing)+len(incoming))
	for _, f := range existing {
		if _, ok := replaced[f.Field]; ok {
			continue
		}
		merged = append(merged, f)
	}
	return append(merged, incoming...)
}

// BuildTextSearchFilter turns a search box value into filters. An empty query
// yields no filters. Otherwise the first field carries a "contains" condition
// and the remaining fields are attached as alternatives with the same query.
func BuildTextSearchFilter(query string, fields []string) []FilterField {
	query = strings.TrimSpace(query)
	if query == "" || len(fields) == 0 {
		return []FilterField{}
	}

	primary := FilterField{
		Field:     fields[0],
		Operation: OpContains,
		Value:     query,
	}
	if len(fields) > 1 {
		primary.Alternatives = make([]FilterField, 0, len(fields)-1)
		for _, name := range fields[1:] {
			primary.Alternatives = append(primary.Alternatives, FilterField{
				Field:     name,
				Operation: OpContains,
				Value:     query,
			})
		}
	}
	return []FilterField{primary}
}

// ApplyFilterFields merges incoming into a copy of criteria. A changed filter
// set always restarts the result list at page 0.
func ApplyFilterFields(criteria SearchCriteria, incoming []FilterField) SearchCriteria {
	out := criteria.Clone()
	out.FilterFields = MergeFilterFields(out.FilterFields, incoming)
	out.PageNum = 0
	return out
}

// ApplyTextSearch sets or clears the text search over fields.
func ApplyTextSearch(criteria SearchCriteria, query string, fields []string) SearchCriteria {
	if len(fields) == 0 {
		return criteria.Clone()
	}
	text := BuildTextSearchFilter(query, fields)
	if len(text) > 0 {
		return ApplyFilterFields(criteria, text)
	}

	out := criteria.Clone()
	out.FilterFields = RemoveFilterFields(out.FilterFields, fields[0])
	out.PageNum = 0
	return out
}

// RemoveFilterFields returns fields without the entries targeting names.
func RemoveFilterFields(fields []FilterField, names ...string) []FilterField {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := make([]FilterField, 0, len(fields))
	for _, f := range fields {
		if _, ok := drop[f.Field]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// AdvancePage is the "load more" path: only the page number changes.
func AdvancePage(criteria SearchCriteria, pageNum int) SearchCriteria {
	out := criteria.Clone()
	out.PageNum = pageNum
	return out
}
