package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/services"
	"github.com/promptshare/prompt-service/internal/utils"
	"github.com/promptshare/prompt-service/internal/validator"
)

// fakePromptService drives handler tests without storage or auth.
type fakePromptService struct {
	prompts   map[uint]*models.Prompt
	likeErr   error
	likeCalls int
}

func newFakePromptService() *fakePromptService {
	return &fakePromptService{prompts: map[uint]*models.Prompt{
		1: {ID: 1, Title: "Minimalist logo brief", Category: models.CategoryArt, LikeCount: 3},
		2: {ID: 2, Title: "SQL tuning checklist", Category: models.CategoryCoding},
	}}
}

func (f *fakePromptService) Create(ctx context.Context, req *services.CreatePromptRequest, actorID string) (*services.PromptResponse, error) {
	if actorID != "admin-1" {
		return nil, services.NewPermissionError(actorID, 0, "prompt", "create", "admin role required")
	}
	p := &models.Prompt{ID: 99, Title: req.Title, Category: req.Category}
	f.prompts[p.ID] = p
	return &services.PromptResponse{Prompt: p, CanEdit: true, CanDelete: true}, nil
}

func (f *fakePromptService) Update(ctx context.Context, id uint, req *services.UpdatePromptRequest, actorID string) (*services.PromptResponse, error) {
	p, ok := f.prompts[id]
	if !ok {
		return nil, services.ErrPromptNotFound
	}
	return &services.PromptResponse{Prompt: p}, nil
}

func (f *fakePromptService) Delete(ctx context.Context, id uint, actorID string) error {
	if _, ok := f.prompts[id]; !ok {
		return services.ErrPromptNotFound
	}
	delete(f.prompts, id)
	return nil
}

func (f *fakePromptService) GetByID(ctx context.Context, id uint, actorID string) (*services.PromptResponse, error) {
	p, ok := f.prompts[id]
	if !ok {
		return nil, services.ErrPromptNotFound
	}
	return &services.PromptResponse{Prompt: p}, nil
}

func (f *fakePromptService) List(ctx context.Context, query services.ListPromptsQuery) (*services.PromptListResponse, error) {
	if query.Category != "" && !models.PromptCategory(query.Category).IsValid() {
		return nil, validator.ValidationErrors{{Field: "category", Message: "unknown category"}}
	}
	out := make([]*models.Prompt, 0, len(f.prompts))
	for _, p := range f.prompts {
		out = append(out, p)
	}
	return &services.PromptListResponse{Prompts: out, Total: int64(len(out))}, nil
}

func (f *fakePromptService) Like(ctx context.Context, id uint) error {
	f.likeCalls++
	if f.likeErr != nil {
		return f.likeErr
	}
	p, ok := f.prompts[id]
	if !ok {
		return services.ErrPromptNotFound
	}
	p.LikeCount++
	return nil
}

func newTestRouter(svc services.PromptService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	handler := NewPromptHandler(svc, validator.New(), logger)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/prompts", handler.ListPrompts)
	v1.GET("/prompts/:id", handler.GetPrompt)
	v1.POST("/prompts/:id/like", handler.LikePrompt)
	v1.POST("/prompts", func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-Test-User"))
		handler.CreatePrompt(c)
	})
	return router
}

func TestPromptHandlerList(t *testing.T) {
	router := newTestRouter(newFakePromptService())

	t.Run("returns catalog", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp services.PromptListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("unknown category is 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts?category=Music", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPromptHandlerGet(t *testing.T) {
	router := newTestRouter(newFakePromptService())

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts/1", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts/404", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts/abc", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPromptHandlerLike(t *testing.T) {
	svc := newFakePromptService()
	router := newTestRouter(svc)

	t.Run("anonymous like succeeds", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts/1/like", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 4, svc.prompts[1].LikeCount)
	})

	t.Run("missing prompt is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts/404/like", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("storage failure is 503", func(t *testing.T) {
		svc.likeErr = services.NewStorageError("increment likes", assert.AnError)
		defer func() { svc.likeErr = nil }()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts/1/like", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestPromptHandlerCreate(t *testing.T) {
	router := newTestRouter(newFakePromptService())
	body := `{"title":"New prompt","content":"Do the thing.","category":"Coding"}`

	t.Run("admin creates", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", "admin-1")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("non-admin is 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", "visitor-1")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", "admin-1")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
