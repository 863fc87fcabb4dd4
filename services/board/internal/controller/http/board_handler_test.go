package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lovewall/pkg/logger"
	"lovewall/pkg/middleware"
	"lovewall/services/board/internal/entity"
	"lovewall/services/board/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMutationUseCase struct {
	mock.Mock
}

func (m *MockMutationUseCase) CreatePost(ctx context.Context, in usecase.CreatePostInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockMutationUseCase) CreateComment(ctx context.Context, postID string, in usecase.CreateCommentInput) (string, error) {
	args := m.Called(ctx, postID, in)
	return args.String(0), args.Error(1)
}

func (m *MockMutationUseCase) ToggleLike(ctx context.Context, postID string, session entity.SessionID) (*entity.LikeResult, error) {
	args := m.Called(ctx, postID, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeResult), args.Error(1)
}

type MockReadUseCase struct {
	mock.Mock
}

func (m *MockReadUseCase) ListPosts(ctx context.Context, limit int) ([]*entity.PostSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PostSummary), args.Error(1)
}

func (m *MockReadUseCase) GetPost(ctx context.Context, postID string) (*entity.PostDetail, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostDetail), args.Error(1)
}

var (
	_ usecase.MutationUseCase = (*MockMutationUseCase)(nil)
	_ usecase.ReadUseCase     = (*MockReadUseCase)(nil)
)

func setupTestRouter() (*gin.Engine, *MockMutationUseCase, *MockReadUseCase) {
	gin.SetMode(gin.TestMode)
	mutation := new(MockMutationUseCase)
	read := new(MockReadUseCase)
	handler := NewBoardHandler(mutation, read, logger.NewNop())

	router := gin.New()
	router.Use(middleware.SessionMiddleware())
	router.POST("/posts", handler.CreatePost)
	router.GET("/posts", handler.ListPosts)
	router.GET("/posts/:id", handler.GetPost)
	router.POST("/posts/:id/comments", handler.CreateComment)
	router.POST("/posts/:id/like", handler.ToggleLike)
	return router, mutation, read
}

func doRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func samplePost() *entity.Post {
	return &entity.Post{
		ID:        "post-123",
		Name:      "Alice",
		Gender:    entity.GenderFemale,
		Content:   "Happy Valentine's",
		CreatedAt: time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC),
		Likes:     1,
		LikedBy:   []entity.SessionID{"s1"},
	}
}

func TestCreatePost_Success(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("CreatePost", mock.Anything, usecase.CreatePostInput{
		Name:    "Alice",
		Gender:  entity.GenderFemale,
		Content: "Happy Valentine's",
	}).Return("post-123", nil)

	w := doRequest(router, "POST", "/posts", `{"name":"Alice","gender":"female","content":"Happy Valentine's"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "post-123", decode(t, w)["id"])
	mutation.AssertExpectations(t)
}

func TestCreatePost_ValidationError(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("CreatePost", mock.Anything, mock.Anything).
		Return("", entity.NewValidationError("name", "must not be empty"))

	w := doRequest(router, "POST", "/posts", `{"name":"","gender":"female","content":"hi"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", decode(t, w)["field"])
}

func TestCreatePost_MalformedJSON(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	w := doRequest(router, "POST", "/posts", `{"name":`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mutation.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
}

func TestCreatePost_StoreError(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("CreatePost", mock.Anything, mock.Anything).Return("", errors.New("db down"))

	w := doRequest(router, "POST", "/posts", `{"name":"Alice","gender":"female","content":"hi"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["error"])
}

func TestListPosts_Success(t *testing.T) {
	router, _, read := setupTestRouter()

	read.On("ListPosts", mock.Anything, 10).Return([]*entity.PostSummary{
		{Post: samplePost(), CommentCount: 2},
	}, nil)

	w := doRequest(router, "GET", "/posts?limit=10", "", map[string]string{middleware.SessionHeader: "s1"})

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, float64(1), response["count"])
	posts := response["posts"].([]interface{})
	require.Len(t, posts, 1)
	first := posts[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["comment_count"])
	assert.Equal(t, float64(1), first["likes"])
	assert.Equal(t, true, first["is_liked"])
	read.AssertExpectations(t)
}

func TestListPosts_NoSessionOmitsIsLiked(t *testing.T) {
	router, _, read := setupTestRouter()

	read.On("ListPosts", mock.Anything, 0).Return([]*entity.PostSummary{{Post: samplePost()}}, nil)

	w := doRequest(router, "GET", "/posts", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	first := decode(t, w)["posts"].([]interface{})[0].(map[string]interface{})
	_, present := first["is_liked"]
	assert.False(t, present)
}

func TestListPosts_BadLimit(t *testing.T) {
	router, _, read := setupTestRouter()

	w := doRequest(router, "GET", "/posts?limit=abc", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	read.AssertNotCalled(t, "ListPosts", mock.Anything, mock.Anything)
}

func TestGetPost_Success(t *testing.T) {
	router, _, read := setupTestRouter()

	read.On("GetPost", mock.Anything, "post-123").Return(&entity.PostDetail{
		Post: samplePost(),
		Comments: []*entity.Comment{
			{ID: "c1", PostID: "post-123", Name: "Bob", Gender: entity.GenderMale, Content: "Sweet!"},
		},
		CommentCount: 1,
	}, nil)

	w := doRequest(router, "GET", "/posts/post-123?session_id=s2", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, float64(1), response["comment_count"])
	post := response["post"].(map[string]interface{})
	assert.Equal(t, false, post["is_liked"])
	assert.Len(t, response["comments"], 1)
}

func TestGetPost_NotFound(t *testing.T) {
	router, _, read := setupTestRouter()

	read.On("GetPost", mock.Anything, "missing").Return(nil, entity.ErrPostNotFound)

	w := doRequest(router, "GET", "/posts/missing", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateComment_Success(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("CreateComment", mock.Anything, "post-123", usecase.CreateCommentInput{
		Name:    "Bob",
		Gender:  entity.GenderMale,
		Content: "Sweet!",
	}).Return("comment-1", nil)

	w := doRequest(router, "POST", "/posts/post-123/comments", `{"name":"Bob","gender":"male","content":"Sweet!"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "comment-1", decode(t, w)["id"])
}

func TestCreateComment_PostNotFound(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("CreateComment", mock.Anything, "missing", mock.Anything).Return("", entity.ErrPostNotFound)

	w := doRequest(router, "POST", "/posts/missing/comments", `{"name":"Bob","gender":"male","content":"hi"}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleLike_BodySession(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("ToggleLike", mock.Anything, "post-123", entity.SessionID("s1")).
		Return(&entity.LikeResult{PostID: "post-123", Liked: true, Likes: 1}, nil)

	w := doRequest(router, "POST", "/posts/post-123/like", `{"session_id":"s1"}`, map[string]string{middleware.SessionHeader: "ignored"})

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, true, response["liked"])
	assert.Equal(t, float64(1), response["likes"])
	assert.Equal(t, "post-123", response["post_id"])
	mutation.AssertExpectations(t)
}

func TestToggleLike_HeaderSession(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("ToggleLike", mock.Anything, "post-123", entity.SessionID("s9")).
		Return(&entity.LikeResult{PostID: "post-123", Liked: false, Likes: 0}, nil)

	w := doRequest(router, "POST", "/posts/post-123/like", "", map[string]string{middleware.SessionHeader: "s9"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["liked"])
}

func TestToggleLike_NotFound(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("ToggleLike", mock.Anything, "missing", entity.SessionID("s1")).Return(nil, entity.ErrPostNotFound)

	w := doRequest(router, "POST", "/posts/missing/like", `{"session_id":"s1"}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleLike_MissingSession(t *testing.T) {
	router, mutation, _ := setupTestRouter()

	mutation.On("ToggleLike", mock.Anything, "post-123", entity.SessionID("")).
		Return(nil, entity.NewValidationError("session_id", "must not be empty"))

	w := doRequest(router, "POST", "/posts/post-123/like", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "session_id", decode(t, w)["field"])
}
