package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/handler/dto"
	"github.com/mtlprog/ampserve/internal/metrics"
	"github.com/mtlprog/ampserve/internal/middleware"
	"github.com/mtlprog/ampserve/internal/telemetry"
)

// DefaultCrawlerAgents are user-agent substrings (matched case-insensitively)
// of AMP caches and crawlers that receive a canonical Link header.
var DefaultCrawlerAgents = []string{
	"googlebot",
	"google-amphtml",
	"adsbot-google",
	"mediapartners-google",
	"bingbot",
	"bingpreview",
	"yandex",
	"duckduckbot",
	"applebot",
	"baiduspider",
	"slurp",
}

// serveBrand renders the brand page for ?<key>=<value>.
// Internal failures are reported with the underlying error text.
func (h *Handler) serveBrand(w http.ResponseWriter, r *http.Request, req dto.PageRequest) {
	const mode = string(domain.ModeBrand)
	ctx := r.Context()

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%w: %v", domain.ErrRender, rec)
			slog.ErrorContext(ctx, "brand page render panicked", "error", err, "request_id", middleware.GetRequestID(ctx))
			metrics.PageRequests.WithLabelValues(mode, "error").Inc()
			http.Error(w, "internal server error: "+err.Error(), http.StatusInternalServerError)
		}
	}()

	page, err := h.brand.Render(ctx, req.Brand)
	if err != nil {
		status, message := dto.MapDomainError(err)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(ctx, "brand page render failed", "error", err)
			message = message + ": " + err.Error()
			metrics.PageRequests.WithLabelValues(mode, "error").Inc()
		} else {
			metrics.PageRequests.WithLabelValues(mode, "missing_parameter").Inc()
		}
		http.Error(w, message, status)
		return
	}

	h.writePage(w, r, mode, page, req)
}

// serveSite renders the page for the site named by the first path segment,
// or a random site for "/". Unmatched segments go to next.
// Internal failures are reported without detail.
func (h *Handler) serveSite(w http.ResponseWriter, r *http.Request, req dto.PageRequest, next http.Handler) {
	const mode = string(domain.ModeSite)
	ctx := r.Context()

	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "site page render panicked", "panic", fmt.Sprint(rec), "request_id", middleware.GetRequestID(ctx))
			metrics.PageRequests.WithLabelValues(mode, "error").Inc()
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}()

	page, err := h.site.Render(ctx, req.Segment)
	if err != nil {
		if errors.Is(err, domain.ErrSiteNotFound) {
			metrics.PageRequests.WithLabelValues(mode, "passthrough").Inc()
			next.ServeHTTP(w, r)
			return
		}
		status, message := dto.MapDomainError(err)
		slog.ErrorContext(ctx, "site page render failed", "error", err)
		metrics.PageRequests.WithLabelValues(mode, "error").Inc()
		http.Error(w, message, status)
		return
	}

	h.writePage(w, r, mode, page, req)
}

// writePage sets content, cache and canonical headers and writes the body.
func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, mode string, page domain.RenderedPage, req dto.PageRequest) {
	header := w.Header()
	header.Set("Content-Type", "text/html; charset=utf-8")
	h.setCacheHeaders(header, page)

	if page.CanonicalURL != "" && h.isCrawler(req.UserAgent) {
		header.Set("Link", "<"+page.CanonicalURL+`>; rel="canonical"`)
	}

	if page.ETag != "" && etagMatches(r.Header.Get("If-None-Match"), page.ETag) {
		metrics.PageRequests.WithLabelValues(mode, "not_modified").Inc()
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(page.HTML)); err != nil {
		slog.WarnContext(r.Context(), "failed to write page", "error", err)
	}

	metrics.PageRequests.WithLabelValues(mode, "rendered").Inc()
	metrics.PagesRendered.WithLabelValues(mode).Inc()
	h.sink.Record(r.Context(), telemetry.Event{
		Mode:      mode,
		Subject:   page.Subject,
		Path:      r.URL.Path,
		UserAgent: req.UserAgent,
		Referer:   r.Referer(),
		RemoteIP:  middleware.ClientIP(r),
		RequestID: middleware.GetRequestID(r.Context()),
		Status:    http.StatusOK,
		At:        h.now(),
	})
}

func (h *Handler) setCacheHeaders(header http.Header, page domain.RenderedPage) {
	maxAge := strconv.Itoa(int(page.Cache.TTL().Seconds()))

	if page.Cache != domain.CachePolicyImmutable {
		header.Set("Cache-Control", "public, max-age="+maxAge)
		return
	}

	header.Set("Cache-Control", "public, max-age="+maxAge+", immutable")
	header.Set("Expires", h.now().Add(page.Cache.TTL()).UTC().Format(http.TimeFormat))
	header.Set("Surrogate-Control", "max-age="+maxAge)
	header.Set("CDN-Cache-Control", "max-age="+maxAge)
	if page.ETag != "" {
		header.Set("ETag", page.ETag)
	}
}

func (h *Handler) isCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return false
	}
	for _, agent := range h.crawlers {
		if strings.Contains(ua, strings.ToLower(agent)) {
			return true
		}
	}
	return false
}

// etagMatches reports whether an If-None-Match value names etag, using the
// weak comparison If-None-Match calls for.
func etagMatches(ifNoneMatch, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
