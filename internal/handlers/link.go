package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tinylink/internal/shortener"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// LinkHandler exposes the link workflows over HTTP.
type LinkHandler struct {
	links   *shortener.Service
	baseURL string
	logger  *zap.Logger
}

// NewLinkHandler creates a new link handler. baseURL prefixes rendered short URLs.
func NewLinkHandler(links *shortener.Service, baseURL string, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		links:   links,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	link, err := h.links.Create(ctx, req.Body.URL, req.Body.Code)
	if err != nil {
		return nil, h.httpError(err, "create link")
	}

	h.logger.Info("link created",
		zap.String("code", string(link.Code)),
		zap.Bool("custom", req.Body.Code != ""),
	)

	resp := &CreateLinkResponse{Body: newLinkBody(link, h.baseURL)}
	resp.Location = resp.Body.ShortURL

	return resp, nil
}

func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	links, err := h.links.List(ctx)
	if err != nil {
		return nil, h.httpError(err, "list links")
	}

	resp := &ListLinksResponse{Body: make([]LinkBody, 0, len(links))}

	for _, link := range links {
		resp.Body = append(resp.Body, newLinkBody(link, h.baseURL))
	}

	return resp, nil
}

func (h *LinkHandler) GetLinkStats(ctx context.Context, req *CodeRequest) (*LinkResponse, error) {
	link, err := h.links.Stats(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.httpError(err, "get link stats")
	}

	return &LinkResponse{Body: newLinkBody(link, h.baseURL)}, nil
}

func (h *LinkHandler) DeleteLink(ctx context.Context, req *CodeRequest) (*struct{}, error) {
	if err := h.links.Delete(ctx, shortener.Code(req.Code)); err != nil {
		return nil, h.httpError(err, "delete link")
	}

	h.logger.Info("link deleted", zap.String("code", req.Code))

	return nil, nil
}

func (h *LinkHandler) LinkQRCode(ctx context.Context, req *QRCodeRequest) (*QRCodeResponse, error) {
	link, err := h.links.Stats(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.httpError(err, "render qr code")
	}

	png, err := qrcode.Encode(shortURL(h.baseURL, link.Code), qrcode.Medium, req.Size)
	if err != nil {
		return nil, h.httpError(err, "render qr code")
	}

	return &QRCodeResponse{ContentType: "image/png", Body: png}, nil
}

// RedirectToTarget sends the client to the link target. The redirect is
// temporary and uncacheable so every visit reaches the server and is counted.
func (h *LinkHandler) RedirectToTarget(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	target, err := h.links.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.httpError(err, "resolve link")
	}

	return &RedirectResponse{
		Status:       http.StatusFound,
		Location:     target,
		CacheControl: "no-store",
	}, nil
}

// httpError maps core errors to fixed client-facing responses.
// Store details are logged, never returned.
func (h *LinkHandler) httpError(err error, op string) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest("Invalid URL. Use http or https.")
	case errors.Is(err, shortener.ErrInvalidFormat):
		return huma.Error400BadRequest("Custom code must be 6-8 characters [A-Za-z0-9]")
	case errors.Is(err, shortener.ErrAlreadyExists):
		return huma.Error409Conflict("Code already exists")
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("Code not found")
	case errors.Is(err, shortener.ErrAllocationExhausted):
		h.logger.Error("code allocation exhausted", zap.String("op", op), zap.Error(err))

		return huma.Error500InternalServerError("Could not generate unique code")
	default:
		h.logger.Error("request failed", zap.String("op", op), zap.Error(err))

		return huma.Error500InternalServerError("Internal server error")
	}
}
