// Package carers exposes the carer directory over HTTP.
package carers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/carer-directory/internal/carer"
	"github.com/janisto/carer-directory/internal/platform/auth"
	applog "github.com/janisto/carer-directory/internal/platform/logging"
	"github.com/janisto/carer-directory/internal/platform/pagination"
	svc "github.com/janisto/carer-directory/internal/service/carers"
)

const cursorKind = "carer"

// Directory is the subset of the carer directory the handlers use.
type Directory interface {
	FetchCarers(ctx context.Context, force bool)
	State() svc.State
	Carer(id string) (carer.Carer, bool)
	Description(id string) string
	AddReview(ctx context.Context, id string, rating any) bool
}

// Register wires carer routes into the provided API router.
func Register(api huma.API, dir Directory, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "list-carers",
		Method:      http.MethodGet,
		Path:        "/carers",
		Summary:     "List carers",
		Description: "Loads the directory on first use and returns a page of carers with their rating summary. " +
			"Use the cursor from the Link header to navigate between pages.",
		Tags: []string{"Carers"},
	}, func(ctx context.Context, input *ListInput) (*ListOutput, error) {
		cursor, err := pagination.DecodeCursor(input.Cursor, cursorKind)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid cursor format")
		}

		dir.FetchCarers(ctx, false)
		state := dir.State()

		page := pagination.Paginate(state.Carers, pagination.Request{
			Cursor:  cursor,
			Limit:   input.PageSize(),
			BaseURL: prefix + "/carers",
			Query:   url.Values{},
		}, func(c carer.Carer) string { return c.ID })

		items := make([]Carer, len(page.Items))
		for i, c := range page.Items {
			items[i] = toHTTPCarer(c)
		}
		return &ListOutput{
			Link: page.Link,
			Body: ListData{
				DirectoryState: toHTTPState(state),
				Items:          items,
				Total:          page.Total,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-carers",
		Method:      http.MethodPost,
		Path:        "/carers/refresh",
		Summary:     "Reload the carer directory",
		Description: "Forces a reload from the database. Joins a load that is already in flight.",
		Tags:        []string{"Carers"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, _ *RefreshInput) (*RefreshOutput, error) {
		dir.FetchCarers(ctx, true)
		if err := ctx.Err(); err != nil {
			return nil, huma.Error503ServiceUnavailable("directory reload did not finish", err)
		}
		state := dir.State()
		return &RefreshOutput{
			Body: RefreshData{
				DirectoryState: toHTTPState(state),
				Total:          len(state.Carers),
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-carer",
		Method:      http.MethodGet,
		Path:        "/carers/{id}",
		Summary:     "Get a carer",
		Tags:        []string{"Carers"},
	}, func(ctx context.Context, input *GetInput) (*GetOutput, error) {
		dir.FetchCarers(ctx, false)
		c, ok := dir.Carer(input.ID)
		if !ok {
			return nil, huma.Error404NotFound("carer not found")
		}
		return &GetOutput{Body: toHTTPCarer(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-carer-description",
		Method:      http.MethodGet,
		Path:        "/carers/{id}/description",
		Summary:     "Get a carer's introduction",
		Description: "Returns the introduction, or a placeholder when the carer has not written one or is unknown.",
		Tags:        []string{"Carers"},
	}, func(ctx context.Context, input *GetInput) (*DescriptionOutput, error) {
		dir.FetchCarers(ctx, false)
		out := &DescriptionOutput{}
		out.Body.ID = input.ID
		out.Body.Description = dir.Description(input.ID)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-carer-review",
		Method:        http.MethodPost,
		Path:          "/carers/{id}/reviews",
		Summary:       "Review a carer",
		Description:   "Records a rating. Values are rounded and clamped to the range 1 to 5.",
		Tags:          []string{"Carers"},
		DefaultStatus: http.StatusCreated,
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *ReviewInput) (*ReviewOutput, error) {
		user := auth.UserFromContext(ctx)

		dir.FetchCarers(ctx, false)
		if _, ok := dir.Carer(input.ID); !ok {
			return nil, huma.Error404NotFound("carer not found")
		}

		rating, valid := carer.ParseRating(input.Body.Rating)
		if !valid || !dir.AddReview(ctx, input.ID, input.Body.Rating) {
			auditReview(ctx, user, input.ID, applog.AuditFailure, map[string]any{"validRating": valid})
			return nil, huma.Error422UnprocessableEntity("review could not be recorded",
				&huma.ErrorDetail{Location: "body.rating", Value: input.Body.Rating, Message: reviewFailure(valid)})
		}
		auditReview(ctx, user, input.ID, applog.AuditSuccess, map[string]any{"rating": rating})

		c, _ := dir.Carer(input.ID)
		return &ReviewOutput{
			Location: prefix + "/carers/" + url.PathEscape(input.ID),
			Body: ReviewData{
				CarerID:       input.ID,
				Rating:        rating,
				AverageRating: c.AverageRating(),
				ReviewCount:   c.ReviewCount(),
			},
		}, nil
	})
}

func reviewFailure(validRating bool) string {
	if !validRating {
		return "rating must be numeric"
	}
	return "review storage is unavailable"
}

func auditReview(ctx context.Context, user *auth.User, carerID, result string, details map[string]any) {
	actor := ""
	if user != nil {
		actor = user.UID
	}
	applog.Audit(ctx, applog.AuditEvent{
		Action:       "create",
		Actor:        actor,
		ResourceType: "review",
		ResourceID:   carerID,
		Result:       result,
		Details:      details,
	})
}
