package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the link API and the public redirect route.
func RegisterRoutes(api huma.API, h *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/api/links",
		Summary:       "Create short link",
		Description:   "Creates a short link, using the custom code if one is given or a random 6 character code otherwise.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/api/links",
		Summary:     "List links",
		Description: "Lists all links, most recently created first.",
		Tags:        []string{"Links"},
	}, h.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "get-link-stats",
		Method:      http.MethodGet,
		Path:        "/api/links/{code}",
		Summary:     "Get link stats",
		Tags:        []string{"Links"},
	}, h.GetLinkStats)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-link",
		Method:        http.MethodDelete,
		Path:          "/api/links/{code}",
		Summary:       "Delete link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
	}, h.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "get-link-qr",
		Method:      http.MethodGet,
		Path:        "/api/links/{code}/qr",
		Summary:     "Get link QR code",
		Description: "Renders the short URL of the link as a PNG QR code.",
		Tags:        []string{"Links"},
	}, h.LinkQRCode)

	// GET /{code} - Redirect to the target URL and count the visit
	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to target URL",
		Description: "Redirects to the target URL associated with the short code.",
		Tags:        []string{"Redirect"},
	}, h.RedirectToTarget)
}
