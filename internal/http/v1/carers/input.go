package carers

import "github.com/janisto/carer-directory/internal/platform/pagination"

// ListInput defines query parameters for listing carers.
type ListInput struct {
	pagination.Params
}

// RefreshInput for POST /carers/refresh (no body needed)
type RefreshInput struct{}

// GetInput identifies one carer.
type GetInput struct {
	ID string `path:"id" maxLength:"128" doc:"Carer profile ID" example:"amelia-stone"`
}

// ReviewInput for POST /carers/{id}/reviews
type ReviewInput struct {
	ID   string `path:"id" maxLength:"128" doc:"Carer profile ID" example:"amelia-stone"`
	Body struct {
		Rating any `json:"rating" required:"true" doc:"Rating; numeric strings are accepted, values are rounded and clamped to 1..5"`
	}
}
