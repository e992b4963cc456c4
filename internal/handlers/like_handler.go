package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/notifications"
	"github.com/learnloop/backend/internal/repositories"
	"go.uber.org/zap"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	engine         *notifications.Engine
	logger         *zap.Logger
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	engine *notifications.Engine,
	logger *zap.Logger,
) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		engine:         engine,
		logger:         logger,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
}

// LikePost records a like and notifies the post's author. Duplicate likes
// are rejected at the storage layer by the (post_id, user_id) uniqueness, so
// a repeat like never produces a second notification.
func (h *LikeHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	like := &models.Like{PostID: postID, UserID: currentUserID}
	created, err := h.likeRepository.CreateLike(like)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !created {
		return echo.NewHTTPError(http.StatusConflict, "Post already liked by this user")
	}

	if err := h.postRepository.IncrementLikesCount(c.Request().Context(), postID, 1); err != nil {
		h.logger.Error("failed to bump likes counter", zap.String("post_id", postID), zap.Error(err))
	}

	if err := h.engine.NotifyLike(c.Request().Context(), currentUserID, postID); err != nil {
		h.logger.Error("failed to create like notification",
			zap.String("post_id", postID),
			zap.Uint("liker_id", currentUserID),
			zap.Error(err))
	}

	return c.JSON(http.StatusCreated, like)
}

// UnlikePost removes a like. No notification is generated or retracted.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	if err := h.likeRepository.DeleteLike(postID, currentUserID); err != nil {
		if errors.Is(err, repositories.ErrLikeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementLikesCount(c.Request().Context(), postID, -1); err != nil {
		h.logger.Error("failed to drop likes counter", zap.String("post_id", postID), zap.Error(err))
	}

	return c.NoContent(http.StatusNoContent)
}
