package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the short URL and visit routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler, visitsHandler *VisitsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/rest/v1/short-urls",
		Summary:       "Create short URL",
		Description:   "Creates a short URL with a randomly generated code.",
		Tags:          []string{"Short URLs"},
		DefaultStatus: http.StatusCreated,
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "list-visits",
		Method:      http.MethodGet,
		Path:        "/rest/v1/short-urls/{shortCode}/visits",
		Summary:     "List visits",
		Description: "Returns the visits of a short URL, most recent first.",
		Tags:        []string{"Visits"},
	}, visitsHandler.ListVisits)

	// Registered last so the static routes above take precedence in docs.
	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{shortCode}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL and records the visit.",
		Tags:        []string{"Short URLs"},
	}, urlHandler.RedirectToURL)
}
