package types

// Operation is the comparison a FilterField asks the search endpoint to apply.
type Operation string

const (
	OpEqual          Operation = "eq"
	OpNotEqual       Operation = "neq"
	OpContains       Operation = "cn"
	OpIn             Operation = "in"
	OpNotIn          Operation = "nin"
	OpGreater        Operation = "gt"
	OpGreaterOrEqual Operation = "ge"
	OpLess           Operation = "lt"
	OpLessOrEqual    Operation = "le"
	OpIsNull         Operation = "nu"
	OpIsNotNull      Operation = "nn"
)

var operations = map[Operation]struct{}{
	OpEqual: {}, OpNotEqual: {}, OpContains: {}, OpIn: {}, OpNotIn: {},
	OpGreater: {}, OpGreaterOrEqual: {}, OpLess: {}, OpLessOrEqual: {},
	OpIsNull: {}, OpIsNotNull: {},
}

// Valid reports whether op is one of the known operations.
func (op Operation) Valid() bool {
	_, ok := operations[op]
	return ok
}

type Direction string

const (
	DirectionAsc  Direction = "ASC"
	DirectionDesc Direction = "DESC"
)

// FilterField is one column-level condition of a search request.
//
// Alternatives are OR-ed with the field itself, which is how a single text
// query is matched against several columns.
type FilterField struct {
	Field        string        `json:"field"`
	Operation    Operation     `json:"operation" validate:"omitempty,filter_operation"`
	Value        interface{}   `json:"value,omitempty"`
	Values       []interface{} `json:"values,omitempty"`
	Alternatives []FilterField `json:"alternatives,omitempty" validate:"omitempty,dive"`
	EnumName     string        `json:"enumName,omitempty"`
	JoinType     string        `json:"joinType,omitempty"`
}

// SearchCriteria is the body of POST {basePath}/search.
type SearchCriteria struct {
	FilterFields []FilterField `json:"filterFields" validate:"dive"`
	PageSize     int           `json:"pageSize" validate:"gte=0"`
	PageNum      int           `json:"pageNum" validate:"gte=0"`
	Direction    Direction     `json:"direction,omitempty" validate:"omitempty,oneof=ASC DESC"`
	SortField    string        `json:"sortField,omitempty"`
}

const DefaultPageSize = 10

// DefaultCriteria is what a list screen starts from.
func DefaultCriteria() SearchCriteria {
	return SearchCriteria{
		FilterFields: []FilterField{},
		PageSize:     DefaultPageSize,
		PageNum:      0,
		Direction:    DirectionDesc,
	}
}

// Clone returns a copy that shares no slices with c.
func (c SearchCriteria) Clone() SearchCriteria {
	out := c
	out.FilterFields = cloneFields(c.FilterFields)
	return out
}

// FieldNames returns the field names of the active filters, in order.
func (c SearchCriteria) FieldNames() []string {
	names := make([]string, 0, len(c.FilterFields))
	for _, f := range c.FilterFields {
		names = append(names, f.Field)
	}
	return names
}

// Filter returns the active filter on field, if any.
func (c SearchCriteria) Filter(field string) (FilterField, bool) {
	for _, f := range c.FilterFields {
		if f.Field == field {
			return f, true
		}
	}
	return FilterField{}, false
}

func cloneFields(fields []FilterField) []FilterField {
	if fields == nil {
		return nil
	}
	out := make([]FilterField, len(fields))
	for i, f := range fields {
		out[i] = f
		if f.Values != nil {
			out[i].Values = append([]interface{}(nil), f.Values...)
		}
		out[i].Alternatives = cloneFields(f.Alternatives)
	}
	return out
}
