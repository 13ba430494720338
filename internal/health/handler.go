package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// ContentType is the media type of health responses.
const ContentType = "application/health+json"

const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Connection is the backing store being probed.
type Connection interface {
	Ping(ctx context.Context) (bool, error)
}

// Recorder receives the outcome of every check.
type Recorder interface {
	HealthChecked(ctx context.Context, pass bool)
}

// Status is the health document returned to clients.
type Status struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Links   map[string]string `json:"links"`
}

// Probe checks whether the backing store is reachable.
type Probe struct {
	conn     Connection
	version  string
	recorder Recorder
	logger   *zap.Logger
}

// NewProbe creates a new health probe reporting version. recorder may be nil.
func NewProbe(conn Connection, version string, recorder Recorder, logger *zap.Logger) *Probe {
	return &Probe{
		conn:     conn,
		version:  version,
		recorder: recorder,
		logger:   logger,
	}
}

// Check pings the connection and returns the health document together with
// the HTTP status code that goes with it.
func (p *Probe) Check(ctx context.Context) (Status, int) {
	pass := p.ping(ctx)

	if p.recorder != nil {
		p.recorder.HealthChecked(ctx, pass)
	}

	status := Status{
		Status:  StatusPass,
		Version: p.version,
		Links: map[string]string{
			"about":   "https://shlink.io",
			"project": "https://github.com/shlinkio/shlink",
		},
	}

	if !pass {
		status.Status = StatusFail

		return status, http.StatusServiceUnavailable
	}

	return status, http.StatusOK
}

// ping turns every failure mode of the connection, panics included, into false.
func (p *Probe) ping(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("health ping panicked", zap.Any("panic", r))
			ok = false
		}
	}()

	ok, err := p.conn.Ping(ctx)
	if err != nil {
		p.logger.Warn("health ping failed", zap.Error(err))

		return false
	}

	return ok
}

// Response is the response for the health check endpoint.
type Response struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        Status
}

// Handler serves the health check endpoint.
type Handler struct {
	probe *Probe
}

// NewHandler creates a new health handler.
func NewHandler(probe *Probe) *Handler {
	return &Handler{probe: probe}
}

// Check reports the health of the service. It never returns an error; an
// unreachable store is reported as a 503 with status "fail".
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	status, code := h.probe.Check(ctx)

	return &Response{
		Status:      code,
		ContentType: ContentType,
		Body:        status,
	}, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Check service health",
		Description: "Reports whether the backing store is reachable, with the service version.",
		Tags:        []string{"Monitoring"},
		Responses: map[string]*huma.Response{
			"503": {Description: "Backing store unreachable"},
		},
	}, h.Check)
}
