package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mohsen-qasemi/herald/internal/digest"
	"github.com/mohsen-qasemi/herald/internal/store"
)

// digestLister is the slice of the store the history endpoint needs.
type digestLister interface {
	ListDigests(ctx context.Context, limit int) ([]store.Digest, error)
}

// DigestsHandler triggers on-demand digests and serves stored ones.
type DigestsHandler struct {
	Aggregator *digest.Aggregator
	Generator  *digest.Generator
	Store      digestLister

	WindowHours     int
	MaxItems        int
	MaxCharsPerItem int
}

func (h *DigestsHandler) Register(g *echo.Group) {
	g.POST("/digests", h.generate)
	g.GET("/digests", h.list)
}

func (h *DigestsHandler) generate(c echo.Context) error {
	var req DigestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	kind := store.DigestKind(req.Kind)
	switch kind {
	case "":
		kind = store.DigestBrief
	case store.DigestBrief, store.DigestFull:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "kind must be 'brief' or 'full'")
	}
	window := req.WindowHours
	if window <= 0 {
		window = h.WindowHours
	}

	ctx := c.Request().Context()
	result, err := h.Aggregator.Aggregate(ctx, window)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if result.TotalItems == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":      "no new messages for the requested period",
			"window_hours": window,
		})
	}

	budgeted := digest.FormatForLLM(result, h.MaxItems, h.MaxCharsPerItem)
	d, err := h.Generator.Generate(ctx, budgeted, kind, false)
	if err != nil {
		var genErr *digest.GenerationError
		if errors.As(err, &genErr) && genErr.Unreachable {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, toDigestResponse(d))
}

func (h *DigestsHandler) list(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}
	digests, err := h.Store.ListDigests(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]DigestResponse, 0, len(digests))
	for _, d := range digests {
		out = append(out, toDigestResponse(d))
	}
	return c.JSON(http.StatusOK, out)
}

func toDigestResponse(d store.Digest) DigestResponse {
	return DigestResponse{
		ID:           d.ID,
		Kind:         string(d.Kind),
		Scheduled:    d.Scheduled,
		Content:      d.Content,
		MessageCount: d.MessageCount,
		CreatedAt:    d.CreatedAt,
	}
}
