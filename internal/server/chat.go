package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mohsen-qasemi/herald/internal/agent"
	"github.com/mohsen-qasemi/herald/internal/mail"
	"github.com/mohsen-qasemi/herald/provider"
)

const conversationTemperature = 0.7

// intentRouter is the router seam; tests substitute a canned one.
type intentRouter interface {
	Route(ctx context.Context, userMessage string) (toolResult, reply string)
}

// ChatHandler runs one chat turn: pending-action confirmations first,
// then intent routing, then plain conversation as the fallback.
type ChatHandler struct {
	Router        intentRouter
	Oracle        provider.Provider
	Conversations *agent.ConversationStore
	Pending       *agent.PendingStore
	Mail          mail.Client
	Logger        *log.Logger
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("/chat", h.chat)
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == "" || req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and message required")
	}
	ctx := agent.WithCaller(c.Request().Context(), req.UserID)

	// an outstanding confirmation consumes the turn before any routing
	if action, ok := h.Pending.Get(req.UserID); ok {
		if reply, handled := h.resolvePending(c, req, action); handled {
			chatRequests.WithLabelValues("confirmation").Inc()
			return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
		}
	}

	if _, reply := h.Router.Route(ctx, req.Message); reply != "" {
		chatRequests.WithLabelValues("tool").Inc()
		h.Conversations.Append(req.UserID, "user", req.Message)
		h.Conversations.Append(req.UserID, "assistant", reply)
		return c.JSON(http.StatusOK, ChatResponse{Reply: reply, ToolUsed: true})
	}

	history := h.Conversations.History(req.UserID)
	reply, err := h.Oracle.Chat(ctx, history, req.Message, conversationTemperature)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	chatRequests.WithLabelValues("conversation").Inc()
	h.Conversations.Append(req.UserID, "user", req.Message)
	h.Conversations.Append(req.UserID, "assistant", reply)
	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// resolvePending interprets a yes/no answer to the caller's outstanding
// action. Any other message leaves the action pending and falls through
// to normal handling.
func (h *ChatHandler) resolvePending(c echo.Context, req ChatRequest, action agent.PendingAction) (string, bool) {
	switch normalizeAnswer(req.Message) {
	case "yes":
		h.Pending.Clear(req.UserID)
		if action.Kind != agent.PendingArchiveSpam || h.Mail == nil {
			return "Nothing left to do.", true
		}
		if err := h.Mail.BatchArchive(c.Request().Context(), action.IDs); err != nil {
			h.logger().Printf("batch archive for %s failed: %v", req.UserID, err)
			return "Could not archive those messages, please try again later.", true
		}
		return fmt.Sprintf("Archived %d messages.", len(action.IDs)), true
	case "no":
		h.Pending.Clear(req.UserID)
		return "Okay, leaving them as they are.", true
	}
	return "", false
}

func normalizeAnswer(s string) string {
	switch strings.ToLower(strings.Trim(s, " .!")) {
	case "yes", "y", "yep", "yeah", "sure":
		return "yes"
	case "no", "n", "nope":
		return "no"
	}
	return ""
}

func (h *ChatHandler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
}
