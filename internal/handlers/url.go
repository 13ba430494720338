package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shlink-go/internal/shortener"
	"github.com/serroba/shlink-go/internal/telemetry"
	"go.uber.org/zap"
)

// Shortener creates short URLs.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (*shortener.ShortURL, error)
}

// URLHandler handles short URL creation and redirects.
type URLHandler struct {
	shortener Shortener
	store     shortener.Repository
	baseURL   string
	tracking  Tracking
	metrics   *telemetry.Metrics
	logger    *zap.Logger
}

// NewURLHandler creates a new URL handler. metrics may be nil.
func NewURLHandler(
	store shortener.Repository,
	baseURL string,
	s Shortener,
	tracking Tracking,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		shortener: s,
		store:     store,
		baseURL:   baseURL,
		tracking:  tracking,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateShortURL stores the long URL under a new code and returns its short URL.
func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	shortURL, err := h.shortener.Shorten(ctx, req.Body.LongURL)
	if err != nil {
		h.logger.Error("failed to save short url", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save url")
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, shortURL.Code)

	resp := &CreateShortURLResponse{}
	resp.Location = fullShortURL
	resp.Body.ShortCode = string(shortURL.Code)
	resp.Body.ShortURL = fullShortURL
	resp.Body.LongURL = shortURL.OriginalURL
	resp.Body.DateCreated = shortURL.CreatedAt

	return resp, nil
}

// RedirectToURL answers with a redirect and records the visit. A visit that
// cannot be recorded is logged and does not fail the redirect.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	code := shortener.Code(req.ShortCode)

	shortURL, err := h.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		h.logger.Error("failed to get short url", zap.String("code", req.ShortCode), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	meta := RequestMetaFromContext(ctx)

	if err = h.tracking.track(ctx, code, meta.VisitorContext()); err != nil {
		h.metrics.VisitFailed(ctx, h.tracking.Mode())
		h.logger.Error("failed to track visit",
			zap.String("code", req.ShortCode),
			zap.String("mode", h.tracking.Mode()),
			zap.Error(err),
		)
	} else {
		h.metrics.VisitTracked(ctx, h.tracking.Mode())
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: shortURL.OriginalURL,
	}, nil
}
