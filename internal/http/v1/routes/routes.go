package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/carer-directory/internal/http/v1/carers"
	"github.com/janisto/carer-directory/internal/http/v1/events"
	"github.com/janisto/carer-directory/internal/platform/auth"
)

// Dependencies are the services behind the v1 routes.
type Dependencies struct {
	Verifier  auth.Verifier
	Directory carers.Directory
	// EventsToken enables the event routes; they are not registered when empty.
	EventsToken string
	Notifier    events.Notifier
	Accounts    events.AccountCleaner
}

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, deps Dependencies) {
	prefix := apiPrefix(api)

	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, deps.Verifier))

	carers.Register(api, deps.Directory, prefix)
	if deps.EventsToken != "" {
		events.Register(api, deps.EventsToken, deps.Notifier, deps.Accounts)
	}
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
