package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/learnloop/backend/internal/feed"
	"github.com/learnloop/backend/pkg/metrics"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	composer *feed.Composer
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(composer *feed.Composer) *FeedHandler {
	return &FeedHandler{composer: composer}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the viewer's feed page: posts by themselves and everyone
// they follow, newest first, with counts and like state.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	limit, offset := pagination(c, 10, 50)
	posts, err := h.composer.GetFeed(c.Request().Context(), currentUserID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	metrics.FeedRequests.Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"posts": posts,
		"meta": echo.Map{
			"limit":  limit,
			"offset": offset,
		},
	})
}
