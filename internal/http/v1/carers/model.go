package carers

import (
	"github.com/janisto/carer-directory/internal/carer"
	"github.com/janisto/carer-directory/internal/platform/timeutil"
	svc "github.com/janisto/carer-directory/internal/service/carers"
)

// Location is a latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat" doc:"Latitude"  example:"60.1699"`
	Lng float64 `json:"lng" doc:"Longitude" example:"24.9384"`
}

// Carer is a directory entry.
type Carer struct {
	ID            string    `json:"id"                 doc:"Profile document ID"                    example:"amelia-stone"`
	Name          string    `json:"name"               doc:"Display name"                           example:"Amelia Stone"`
	Email         string    `json:"email,omitempty"    doc:"Contact email"                          example:"amelia@example.com"`
	Photo         string    `json:"photo"              doc:"Photo URL, or a generated avatar"       example:"https://i.pravatar.cc/300"`
	Description   string    `json:"description"        doc:"Introduction, or a placeholder"         example:"Retired nurse with ten years of home care experience."`
	Reviews       []int     `json:"reviews"            doc:"Ratings from 1 to 5"                   `
	AverageRating float64   `json:"averageRating"      doc:"Mean rating, 5 when there are no reviews" example:"4.5"`
	ReviewCount   int       `json:"reviewCount"        doc:"Number of reviews"                      example:"2"`
	Address       string    `json:"address,omitempty"  doc:"Postal address"                         example:"Mannerheimintie 1, Helsinki"`
	Location      *Location `json:"location,omitempty" doc:"Map position when known"`
}

// DirectoryState describes the last directory load.
type DirectoryState struct {
	Status    string        `json:"status"              doc:"Load status"                    enum:"unloaded,loading,loaded,error"`
	LoadError string        `json:"loadError,omitempty" doc:"User-facing reason the last load failed"`
	LoadedAt  timeutil.Time `json:"loadedAt"            doc:"Time of the last successful load" example:"2024-01-15T10:30:00.000Z"`
}

func toHTTPCarer(c carer.Carer) Carer {
	out := Carer{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Photo:         c.Photo,
		Description:   c.DescriptionOrPlaceholder(),
		Reviews:       c.Reviews,
		AverageRating: c.AverageRating(),
		ReviewCount:   c.ReviewCount(),
		Address:       c.Address,
	}
	if out.Photo == "" {
		out.Photo = carer.PlaceholderPhoto(carer.DefaultPhotoSize)
	}
	if out.Reviews == nil {
		out.Reviews = []int{}
	}
	if c.Location != nil {
		out.Location = &Location{Lat: c.Location.Lat, Lng: c.Location.Lng}
	}
	return out
}

func toHTTPState(s svc.State) DirectoryState {
	return DirectoryState{
		Status:    string(s.Status()),
		LoadError: s.LoadError,
		LoadedAt:  timeutil.NewTime(s.LoadedAt),
	}
}
