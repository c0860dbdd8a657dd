package dto

// ListQuery captures the paging and pivot parameters shared by list routes.
type ListQuery struct {
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	GroupBy  string `form:"groupBy"`
}

// StatusUpdateRequest is the body of POST /…/:id/status.
type StatusUpdateRequest struct {
	Status      string  `json:"status" validate:"required,max=32"`
	ReviewNotes *string `json:"reviewNotes" validate:"omitempty,max=4000"`
}

// ExportRequest selects the format of an attendance export.
type ExportRequest struct {
	Format string `form:"format" json:"format" validate:"omitempty,oneof=csv pdf xlsx"`
}

// GroupedCounts is returned by approval lists when groupBy is set.
type GroupedCounts struct {
	GroupBy string      `json:"groupBy"`
	Groups  interface{} `json:"groups"`
}
