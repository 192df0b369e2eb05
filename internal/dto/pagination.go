package dto

// PageOptions is the (page, limit) pair controlling skip/limit over a sorted
// result set. Page numbers start at 1.
type PageOptions struct {
	Page  int `form:"page,default=1" binding:"min=0"`
	Limit int `form:"limit,default=10" binding:"min=0,max=50"`
}

func (p PageOptions) Normalized() PageOptions {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

func (p PageOptions) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginated is the listing envelope used by every paginated endpoint.
// ResultsCount is the number of rows matching the filter across all pages;
// Total is the unfiltered population size for the listing. The two are
// deliberately allowed to differ.
type Paginated[T any] struct {
	Data         []T   `json:"data"`
	Page         int   `json:"page"`
	ResultsCount int64 `json:"resultsCount"`
	Total        int64 `json:"total"`
}
