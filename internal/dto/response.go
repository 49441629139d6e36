package dto

import "maintenance-system/pkg/types"

// PaginatedResponse is one page of a search. NextCriteria is what the client
// posts to load the following page; it is absent on the last page.
type PaginatedResponse struct {
	Content interface{} `json:"content"`
	types.Pagination
	NextCriteria *types.SearchCriteria `json:"nextCriteria,omitempty"`
}

// Exportable rows can be written to a spreadsheet.
type Exportable interface {
	ExportRow() []interface{}
}
