package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/handler/dto"
	"github.com/mtlprog/ampserve/internal/middleware"
	"github.com/mtlprog/ampserve/internal/service"
	"github.com/mtlprog/ampserve/internal/telemetry"
)

// Options configures a Handler.
type Options struct {
	Mode  domain.Mode
	Brand *service.BrandService
	Site  *service.SiteService
	Sink  telemetry.Sink
	// Ping is called by /healthz when set, e.g. to check the database.
	Ping func(ctx context.Context) error
	// Next receives site-mode requests whose path matches no site.
	// Defaults to a plain-text 404.
	Next http.Handler
	// Now is the clock used for Expires headers and telemetry. Defaults to time.Now.
	Now func() time.Time
	// CrawlerAgents overrides the user-agent substrings that get a canonical Link header.
	CrawlerAgents []string
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	mode     domain.Mode
	brand    *service.BrandService
	site     *service.SiteService
	sink     telemetry.Sink
	ping     func(ctx context.Context) error
	next     http.Handler
	crawlers []string
	now      func() time.Time
}

// New creates a new Handler instance with all dependencies.
func New(opts Options) *Handler {
	h := &Handler{
		mode:     opts.Mode,
		brand:    opts.Brand,
		site:     opts.Site,
		sink:     opts.Sink,
		ping:     opts.Ping,
		next:     opts.Next,
		crawlers: opts.CrawlerAgents,
		now:      opts.Now,
	}
	if !h.mode.IsValid() {
		h.mode = domain.ModeBrand
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.sink == nil {
		h.sink = telemetry.Nop
	}
	if h.next == nil {
		h.next = http.HandlerFunc(notFound)
	}
	if len(h.crawlers) == 0 {
		h.crawlers = DefaultCrawlerAgents
	}
	return h
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Everything else is a page request
	mux.Handle("/", h.Pages(h.next))
}

// Pages returns the page handler. Site-mode requests that match no site are
// handed to next untouched apart from CORS headers.
func (h *Handler) Pages(next http.Handler) http.Handler {
	return middleware.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := dto.ParsePageRequest(r, h.brandKey())
		mode := h.modeFor(req)

		// Only brand pages take POST.
		allow := "GET, POST, OPTIONS"
		if mode == domain.ModeSite {
			allow = "GET, OPTIONS"
		}
		switch {
		case r.Method == http.MethodGet, r.Method == http.MethodHead:
		case r.Method == http.MethodPost && mode != domain.ModeSite:
		default:
			w.Header().Set("Allow", allow)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if mode == domain.ModeSite {
			h.serveSite(w, r, req, next)
			return
		}
		h.serveBrand(w, r, req)
	}))
}

func (h *Handler) modeFor(req dto.PageRequest) domain.Mode {
	if h.mode != domain.ModeAuto {
		return h.mode
	}
	if req.HasBrand {
		return domain.ModeBrand
	}
	return domain.ModeSite
}

func (h *Handler) brandKey() string {
	if h.brand == nil {
		return ""
	}
	return h.brand.QueryKey()
}

// handleHealthz returns 200 OK if the optional dependencies are reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			slog.Error("database health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}
