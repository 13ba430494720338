package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shlink-go/internal/shortener"
	"github.com/serroba/shlink-go/internal/visits"
	"go.uber.org/zap"
)

// VisitLister returns a short URL's visits, most recent first.
type VisitLister interface {
	ListVisits(ctx context.Context, code shortener.Code) ([]visits.Visit, error)
}

// VisitsHandler serves the visit history of short URLs.
type VisitsHandler struct {
	visits VisitLister
	logger *zap.Logger
}

// NewVisitsHandler creates a new visits handler.
func NewVisitsHandler(lister VisitLister, logger *zap.Logger) *VisitsHandler {
	return &VisitsHandler{visits: lister, logger: logger}
}

// ListVisits returns one page of a short URL's visits, most recent first.
func (h *VisitsHandler) ListVisits(ctx context.Context, req *ListVisitsRequest) (*ListVisitsResponse, error) {
	all, err := h.visits.ListVisits(ctx, shortener.Code(req.ShortCode))
	if err != nil {
		var notFound *visits.NotFoundError
		if errors.As(err, &notFound) {
			return nil, huma.Error404NotFound(notFound.Error())
		}

		h.logger.Error("failed to list visits", zap.String("code", req.ShortCode), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list visits")
	}

	resp := &ListVisitsResponse{}
	resp.Body.Visits = paginate(all, req.Page, req.ItemsPerPage)

	return resp, nil
}

// paginate slices a page out of all. Pages past the end are empty.
func paginate(all []visits.Visit, page, perPage int) VisitsPage {
	if page < 1 {
		page = 1
	}

	if perPage < 1 {
		perPage = 1
	}

	total := len(all)
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	data := make([]visits.Visit, end-start)
	copy(data, all[start:end])

	return VisitsPage{
		Data: data,
		Pagination: Pagination{
			CurrentPage:        page,
			PagesCount:         (total + perPage - 1) / perPage,
			ItemsPerPage:       perPage,
			ItemsInCurrentPage: len(data),
			TotalItems:         total,
		},
	}
}
