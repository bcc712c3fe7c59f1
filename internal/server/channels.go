package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mohsen-qasemi/herald/internal/agent"
	"github.com/mohsen-qasemi/herald/internal/feed"
)

// ChannelsHandler manages the monitored channel list over HTTP, the same
// operations the channel tools expose through chat.
type ChannelsHandler struct {
	Store    agent.ChannelStore
	Resolver feed.Reader
}

func (h *ChannelsHandler) Register(g *echo.Group) {
	g.GET("/channels", h.list)
	g.POST("/channels", h.add)
	g.DELETE("/channels/:username", h.remove)
}

func (h *ChannelsHandler) list(c echo.Context) error {
	channels, err := h.Store.ListActiveChannels(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]ChannelResponse, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ChannelResponse{
			ID:          ch.ID,
			Username:    ch.Username,
			Title:       ch.Title,
			IsActive:    ch.IsActive,
			AddedAt:     ch.AddedAt,
			LastChecked: ch.LastChecked,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelsHandler) add(c echo.Context) error {
	var req ChannelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	username := strings.TrimPrefix(strings.TrimSpace(req.Username), "@")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username required")
	}

	ctx := c.Request().Context()
	info, err := h.Resolver.Resolve(ctx, username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "channel not found: "+username)
	}
	ch, err := h.Store.AddChannel(ctx, username, info.Title)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, ChannelResponse{
		ID:       ch.ID,
		Username: ch.Username,
		Title:    ch.Title,
		IsActive: ch.IsActive,
		AddedAt:  ch.AddedAt,
	})
}

func (h *ChannelsHandler) remove(c echo.Context) error {
	username := strings.TrimPrefix(c.Param("username"), "@")
	removed, err := h.Store.RemoveChannel(c.Request().Context(), username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "channel not monitored: "+username)
	}
	return c.NoContent(http.StatusNoContent)
}
