package types

// Pagination describes one page of a search result.
type Pagination struct {
	TotalElements uint64 `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	PageNum       int    `json:"pageNum"`
	PageSize      int    `json:"pageSize"`
	Last          bool   `json:"last"`
}

// NewPagination computes page metadata for total rows split by pageSize.
func NewPagination(total uint64, pageNum, pageSize int) Pagination {
	p := Pagination{
		TotalElements: total,
		PageNum:       pageNum,
		PageSize:      pageSize,
	}
	if pageSize > 0 {
		p.TotalPages = int((total + uint64(pageSize) - 1) / uint64(pageSize))
	}
	p.Last = pageNum+1 >= p.TotalPages
	return p
}

// Offset returns the row offset of the criteria's page.
func (c SearchCriteria) Offset() uint64 {
	if c.PageNum <= 0 || c.PageSize <= 0 {
		return 0
	}
	return uint64(c.PageNum) * uint64(c.PageSize)
}
