package dto

import "maintenance-system/pkg/types"

const WSTypeSearch = "search"

// WSSearchRequest is a live search sent over the websocket. Either Criteria
// or Query is used; Query runs a quick text search.
type WSSearchRequest struct {
	Type     string                `json:"type"`
	Seq      uint64                `json:"seq"`
	Entity   string                `json:"entity"`
	Criteria *types.SearchCriteria `json:"criteria,omitempty"`
	Query    *string               `json:"query,omitempty"`
}
