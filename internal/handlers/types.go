package handlers

import (
	"fmt"
	"time"

	"github.com/serroba/tinylink/internal/shortener"
)

// CreateLinkRequest is the request body for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		URL  string `doc:"The http or https URL to shorten"         example:"https://example.com/very/long/path" json:"url,omitempty"`
		Code string `doc:"Optional custom code, 6-8 chars [A-Za-z0-9]" example:"MyLink42"                        json:"code,omitempty"`
	}
}

// LinkBody is the JSON representation of a link.
type LinkBody struct {
	Code          string     `doc:"The short code"                          example:"abc123"                          json:"code"`
	URL           string     `doc:"The target URL"                          example:"https://example.com/page"        json:"url"`
	ShortURL      string     `doc:"The full short URL"                      example:"http://localhost:3000/abc123"    json:"shortUrl"`
	TotalClicks   int64      `doc:"Number of successful redirects"          example:"0"                               json:"totalClicks"`
	LastClickedAt *time.Time `doc:"Time of the latest redirect, null if none"                                         json:"lastClickedAt"`
	CreatedAt     time.Time  `doc:"Creation time"                                                                     json:"createdAt"`
}

func newLinkBody(link *shortener.Link, baseURL string) LinkBody {
	return LinkBody{
		Code:          string(link.Code),
		URL:           link.TargetURL,
		ShortURL:      shortURL(baseURL, link.Code),
		TotalClicks:   link.TotalClicks,
		LastClickedAt: link.LastClickedAt,
		CreatedAt:     link.CreatedAt,
	}
}

func shortURL(baseURL string, code shortener.Code) string {
	return fmt.Sprintf("%s/%s", baseURL, code)
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Location string `doc:"The short URL" header:"Location"`
	Body     LinkBody
}

// LinkResponse wraps a single link.
type LinkResponse struct {
	Body LinkBody
}

// ListLinksResponse lists links, most recently created first.
type ListLinksResponse struct {
	Body []LinkBody
}

// CodeRequest addresses a link by its code.
type CodeRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse redirects the client to the link target.
type RedirectResponse struct {
	Status       int
	Location     string `header:"Location"`
	CacheControl string `header:"Cache-Control"`
}

// QRCodeRequest asks for a QR code of a link's short URL.
type QRCodeRequest struct {
	Code string `doc:"The short code"             example:"abc123" path:"code"`
	Size int    `doc:"Image width and height in px" default:"256" maximum:"1024" minimum:"64" query:"size"`
}

// QRCodeResponse is a PNG image.
type QRCodeResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
