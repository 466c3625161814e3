package carers

// ListData is the response body containing one page of carers.
type ListData struct {
	DirectoryState
	Items []Carer `json:"items" doc:"Carers on this page"`
	Total int     `json:"total" doc:"Total number of carers in the directory" example:"3"`
}

// ListOutput is the response wrapper with pagination Link header.
type ListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ListData
}

// RefreshData reports the directory state after a forced reload.
type RefreshData struct {
	DirectoryState
	Total int `json:"total" doc:"Number of carers loaded" example:"3"`
}

// RefreshOutput for POST /carers/refresh
type RefreshOutput struct {
	Body RefreshData
}

// GetOutput for GET /carers/{id}
type GetOutput struct {
	Body Carer
}

// DescriptionOutput for GET /carers/{id}/description
type DescriptionOutput struct {
	Body struct {
		ID          string `json:"id"          doc:"Carer profile ID"              example:"amelia-stone"`
		Description string `json:"description" doc:"Introduction, or a placeholder" example:"The carer is busy writing the introduction, come back later."`
	}
}

// ReviewData is the carer's rating summary after a review was recorded.
type ReviewData struct {
	CarerID       string  `json:"carerId"       doc:"Carer profile ID"   example:"amelia-stone"`
	Rating        int     `json:"rating"        doc:"Recorded rating"    example:"5"`
	AverageRating float64 `json:"averageRating" doc:"Updated mean rating" example:"4.67"`
	ReviewCount   int     `json:"reviewCount"   doc:"Updated review count" example:"3"`
}

// ReviewOutput for POST /carers/{id}/reviews (201 Created)
type ReviewOutput struct {
	Location string `header:"Location" doc:"URL of the reviewed carer"`
	Body     ReviewData
}
