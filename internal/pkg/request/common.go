package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams carries page-based paging for list endpoints.
type ListParams struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// OffsetParams carries the offset-style paging used by list endpoints.
// Range checks are left to the service so every caller gets the same error.
type OffsetParams struct {
	From int `form:"from,default=0"`
	Size int `form:"size,default=10"`
}
