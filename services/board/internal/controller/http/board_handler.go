package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lovewall/pkg/logger"
	"lovewall/pkg/middleware"
	"lovewall/services/board/internal/entity"
	"lovewall/services/board/internal/usecase"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	mutationUseCase usecase.MutationUseCase
	readUseCase     usecase.ReadUseCase
	logger          *logger.Logger
}

func NewBoardHandler(mutationUseCase usecase.MutationUseCase, readUseCase usecase.ReadUseCase, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		mutationUseCase: mutationUseCase,
		readUseCase:     readUseCase,
		logger:          logger,
	}
}

// formatPostResponse renders a post snapshot. is_liked is derived from the
// same snapshot as likes and liked_by, and only when a session is known.
func (h *BoardHandler) formatPostResponse(post *entity.Post, session entity.SessionID) map[string]interface{} {
	likedBy := post.LikedBy
	if likedBy == nil {
		likedBy = []entity.SessionID{}
	}

	response := map[string]interface{}{
		"id":         post.ID,
		"name":       post.Name,
		"gender":     post.Gender,
		"content":    post.Content,
		"created_at": post.CreatedAt,
		"likes":      post.Likes,
		"liked_by":   likedBy,
	}

	if session != "" {
		response["is_liked"] = post.HasLiked(session)
	}

	return response
}

func (h *BoardHandler) formatComments(comments []*entity.Comment) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(comments))
	for _, c := range comments {
		out = append(out, map[string]interface{}{
			"id":         c.ID,
			"post_id":    c.PostID,
			"name":       c.Name,
			"gender":     c.Gender,
			"content":    c.Content,
			"created_at": c.CreatedAt,
		})
	}
	return out
}

func sessionFrom(c *gin.Context) entity.SessionID {
	return entity.SessionID(middleware.Session(c))
}

// writeError maps domain errors to a status code.
func (h *BoardHandler) writeError(c *gin.Context, action string, err error) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, entity.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	default:
		h.logger.Error("Failed to %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

type CreatePostRequest struct {
	Name    string `json:"name" example:"Alice"`
	Gender  string `json:"gender" example:"female" enums:"male,female,other"`
	Content string `json:"content" example:"Happy Valentine's Day!"`
}

type CreateCommentRequest struct {
	Name    string `json:"name" example:"Bob"`
	Gender  string `json:"gender" example:"male" enums:"male,female"`
	Content string `json:"content" example:"So sweet!"`
}

type ToggleLikeRequest struct {
	SessionID string `json:"session_id" example:"7f9c2ba4-e88f-4c1b-8e0c-1d2b3a4c5d6e"`
}

// CreatePost godoc
// @Summary      Publish a post
// @Description  Publish an anonymous post. Name is 1-30 characters and content 1-500, both trimmed.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body CreatePostRequest true "Post"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *BoardHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.mutationUseCase.CreatePost(c.Request.Context(), usecase.CreatePostInput{
		Name:    req.Name,
		Gender:  entity.Gender(req.Gender),
		Content: req.Content,
	})
	if err != nil {
		h.writeError(c, "create post", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListPosts godoc
// @Summary      List recent posts
// @Description  Newest posts first, each with its comment count. limit defaults to 100 and is capped at 100.
// @Tags         posts
// @Produce      json
// @Param        limit query int false "Maximum number of posts"
// @Param        session_id query string false "Session used to compute is_liked"
// @Param        X-Session-ID header string false "Session used to compute is_liked"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *BoardHandler) ListPosts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	feed, err := h.readUseCase.ListPosts(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, "list posts", err)
		return
	}

	session := sessionFrom(c)
	posts := make([]map[string]interface{}, 0, len(feed))
	for _, summary := range feed {
		item := h.formatPostResponse(summary.Post, session)
		item["comment_count"] = summary.CommentCount
		posts = append(posts, item)
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// GetPost godoc
// @Summary      Get a post
// @Description  A post with its comments, newest first
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Param        session_id query string false "Session used to compute is_liked"
// @Param        X-Session-ID header string false "Session used to compute is_liked"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *BoardHandler) GetPost(c *gin.Context) {
	detail, err := h.readUseCase.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":          h.formatPostResponse(detail.Post, sessionFrom(c)),
		"comments":      h.formatComments(detail.Comments),
		"comment_count": detail.CommentCount,
	})
}

// CreateComment godoc
// @Summary      Comment on a post
// @Description  Attach an anonymous comment. Comments accept male or female only.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id path string true "Post ID"
// @Param        request body CreateCommentRequest true "Comment"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *BoardHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.mutationUseCase.CreateComment(c.Request.Context(), c.Param("id"), usecase.CreateCommentInput{
		Name:    req.Name,
		Gender:  entity.Gender(req.Gender),
		Content: req.Content,
	})
	if err != nil {
		h.writeError(c, "create comment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ToggleLike godoc
// @Summary      Toggle a like
// @Description  Flip the session's like on a post and return the committed state. A retried request may toggle twice; trust the returned state.
// @Tags         likes
// @Accept       json
// @Produce      json
// @Param        id path string true "Post ID"
// @Param        request body ToggleLikeRequest false "Session"
// @Param        X-Session-ID header string false "Session, used when the body has none"
// @Success      200  {object}  entity.LikeResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *BoardHandler) ToggleLike(c *gin.Context) {
	var req ToggleLikeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	session := entity.SessionID(strings.TrimSpace(req.SessionID))
	if session == "" {
		session = sessionFrom(c)
	}

	result, err := h.mutationUseCase.ToggleLike(c.Request.Context(), c.Param("id"), session)
	if err != nil {
		h.writeError(c, "toggle like", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
