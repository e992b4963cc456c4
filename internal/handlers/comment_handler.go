package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/learnloop/backend/internal/models"
	"github.com/learnloop/backend/internal/notifications"
	"github.com/learnloop/backend/internal/repositories"
	"go.uber.org/zap"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	engine            *notifications.Engine
	logger            *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	engine *notifications.Engine,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		engine:            engine,
		logger:            logger,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetComments)
}

// CreateComment records a comment and notifies the post's author.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: currentUserID,
		Text:   req.Text,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), postID, 1); err != nil {
		h.logger.Error("failed to bump comments counter", zap.String("post_id", postID), zap.Error(err))
	}

	if err := h.engine.NotifyComment(c.Request().Context(), currentUserID, postID, comment.Text); err != nil {
		h.logger.Error("failed to create comment notification",
			zap.String("post_id", postID),
			zap.Uint("commenter_id", currentUserID),
			zap.Error(err))
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists a post's comments, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.Param("post_id")
	limit, offset := pagination(c, 20, 100)

	comments, err := h.commentRepository.GetCommentsByPostID(postID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}
