package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"github.com/promptshare/prompt-service/internal/events"
	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/repositories"
	"github.com/promptshare/prompt-service/internal/validator"
)

// fakePromptRepo is an in-memory PromptRepository for service tests.
type fakePromptRepo struct {
	mu       sync.Mutex
	prompts  map[uint]*models.Prompt
	nextID   uint
	failWith error
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{prompts: make(map[uint]*models.Prompt), nextID: 1}
}

func (f *fakePromptRepo) Create(ctx context.Context, tx *gorm.DB, prompt *models.Prompt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	prompt.ID = f.nextID
	f.nextID++
	prompt.CreatedAt = time.Now()
	cp := *prompt
	f.prompts[prompt.ID] = &cp
	return nil
}

func (f *fakePromptRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.prompts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePromptRepo) Update(ctx context.Context, tx *gorm.DB, prompt *models.Prompt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.prompts[prompt.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	likes := existing.LikeCount
	cp := *prompt
	cp.LikeCount = likes
	f.prompts[prompt.ID] = &cp
	return nil
}

func (f *fakePromptRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.prompts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.prompts, id)
	return nil
}

func (f *fakePromptRepo) List(ctx context.Context, filters repositories.PromptFilters) ([]*models.Prompt, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	out := make([]*models.Prompt, 0, len(f.prompts))
	for _, p := range f.prompts {
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakePromptRepo) IncrementLikes(ctx context.Context, tx *gorm.DB, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	p, ok := f.prompts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.LikeCount++
	return nil
}

func (f *fakePromptRepo) ExistsByID(ctx context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.prompts[id]
	return ok, nil
}

// fakeRepository bundles the fakes behind the Repository interface.
type fakeRepository struct {
	prompts  *fakePromptRepo
	profiles *fakeProfileRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{prompts: newFakePromptRepo(), profiles: newFakeProfileRepo()}
}

func (f *fakeRepository) Prompt() repositories.PromptRepository   { return f.prompts }
func (f *fakeRepository) Profile() repositories.ProfileRepository { return f.profiles }
func (f *fakeRepository) User() repositories.UserRepository       { return nil }
func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}
func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

func newTestPromptService(repo *fakeRepository) (PromptService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	policy := NewAccessPolicy(repo.profiles, testLogger())
	svc := NewPromptService(repo, nil, testLogger(), validator.New(), policy, publisher)
	return svc, publisher
}

func seedAdmin(repo *fakeRepository) {
	repo.profiles.profiles["admin-1"] = &models.UserProfile{UserID: "admin-1", Role: models.RoleAdmin}
}

func TestPromptServiceCreate(t *testing.T) {
	repo := newFakeRepository()
	seedAdmin(repo)
	svc, publisher := newTestPromptService(repo)
	ctx := context.Background()

	req := &CreatePromptRequest{
		Title:    "Minimalist logo brief",
		Content:  "Design a minimalist logo for {{company}}.",
		Category: models.CategoryArt,
		Tags:     []string{"logo", "branding"},
	}

	t.Run("admin creates prompt", func(t *testing.T) {
		resp, err := svc.Create(ctx, req, "admin-1")
		require.NoError(t, err)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, 0, resp.LikeCount)
		assert.True(t, resp.CanEdit)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventPromptCreated, published[0].Type)
	})

	t.Run("non-admin denied before any write", func(t *testing.T) {
		before := len(repo.prompts.prompts)
		_, err := svc.Create(ctx, req, "visitor-1")
		require.Error(t, err)
		assert.True(t, IsPermissionError(err))
		assert.Len(t, repo.prompts.prompts, before)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, req, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("invalid category rejected", func(t *testing.T) {
		bad := *req
		bad.Category = "Music"
		_, err := svc.Create(ctx, &bad, "admin-1")
		require.Error(t, err)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestPromptServiceUpdate(t *testing.T) {
	repo := newFakeRepository()
	seedAdmin(repo)
	svc, _ := newTestPromptService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreatePromptRequest{
		Title:    "Refactoring helper",
		Content:  "Refactor the following code.",
		Category: models.CategoryCoding,
	}, "admin-1")
	require.NoError(t, err)

	newTitle := "Refactoring helper v2"
	resp, err := svc.Update(ctx, created.ID, &UpdatePromptRequest{Title: &newTitle}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, newTitle, resp.Title)
	assert.Equal(t, "Refactor the following code.", resp.Content)

	_, err = svc.Update(ctx, 999, &UpdatePromptRequest{Title: &newTitle}, "admin-1")
	assert.ErrorIs(t, err, ErrPromptNotFound)

	_, err = svc.Update(ctx, created.ID, &UpdatePromptRequest{Title: &newTitle}, "visitor-1")
	assert.True(t, IsPermissionError(err))
}

func TestPromptServiceDelete(t *testing.T) {
	repo := newFakeRepository()
	seedAdmin(repo)
	svc, _ := newTestPromptService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreatePromptRequest{
		Title:    "Standup summary",
		Content:  "Summarize these notes.",
		Category: models.CategoryProductivity,
	}, "admin-1")
	require.NoError(t, err)

	assert.True(t, IsPermissionError(svc.Delete(ctx, created.ID, "visitor-1")))

	require.NoError(t, svc.Delete(ctx, created.ID, "admin-1"))

	_, err = svc.GetByID(ctx, created.ID, "")
	assert.ErrorIs(t, err, ErrPromptNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "admin-1"), ErrPromptNotFound)
}

func TestPromptServiceLike(t *testing.T) {
	repo := newFakeRepository()
	seedAdmin(repo)
	svc, publisher := newTestPromptService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreatePromptRequest{
		Title:    "Short story opener",
		Content:  "Write the opening paragraph of a short story.",
		Category: models.CategoryWriting,
	}, "admin-1")
	require.NoError(t, err)
	publisher.ClearEvents()

	t.Run("anonymous like succeeds", func(t *testing.T) {
		require.NoError(t, svc.Like(ctx, created.ID))
		resp, err := svc.GetByID(ctx, created.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 1, resp.LikeCount)
	})

	t.Run("missing prompt maps to not found", func(t *testing.T) {
		assert.ErrorIs(t, svc.Like(ctx, 424242), ErrPromptNotFound)
	})

	t.Run("concurrent likes never lose an increment", func(t *testing.T) {
		const n = 50
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				assert.NoError(t, svc.Like(ctx, created.ID))
			}()
		}
		wg.Wait()

		resp, err := svc.GetByID(ctx, created.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 1+n, resp.LikeCount)
	})

	t.Run("storage failure surfaces as storage error", func(t *testing.T) {
		repo.prompts.failWith = assert.AnError
		defer func() { repo.prompts.failWith = nil }()
		err := svc.Like(ctx, created.ID)
		require.Error(t, err)
		assert.True(t, IsStorageError(err))
	})
}

func TestPromptServiceList(t *testing.T) {
	repo := newFakeRepository()
	seedAdmin(repo)
	svc, _ := newTestPromptService(repo)
	ctx := context.Background()

	seed := []*CreatePromptRequest{
		{Title: "Minimalist logo brief", Description: "Brand identity starter", Content: "c", Category: models.CategoryArt, Tags: []string{"logo", "branding"}},
		{Title: "Watercolor landscape", Description: "Scenic painting prompt", Content: "c", Category: models.CategoryArt},
		{Title: "Logo copy generator", Description: "Taglines to pair with a logo", Content: "c", Category: models.CategoryWriting},
		{Title: "SQL tuning checklist", Description: "Query review steps", Content: "c", Category: models.CategoryCoding},
	}
	for _, req := range seed {
		_, err := svc.Create(ctx, req, "admin-1")
		require.NoError(t, err)
	}

	t.Run("no filters returns everything", func(t *testing.T) {
		resp, err := svc.List(ctx, ListPromptsQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Total)
	})

	t.Run("category and query combine", func(t *testing.T) {
		resp, err := svc.List(ctx, ListPromptsQuery{Category: "Art", Query: "logo"})
		require.NoError(t, err)
		require.Equal(t, int64(1), resp.Total)
		assert.Equal(t, "Minimalist logo brief", resp.Prompts[0].Title)
	})

	t.Run("query matches tags case-insensitively", func(t *testing.T) {
		resp, err := svc.List(ctx, ListPromptsQuery{Query: "BRANDING"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("unknown category is a validation error", func(t *testing.T) {
		_, err := svc.List(ctx, ListPromptsQuery{Category: "Music"})
		require.Error(t, err)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestFilterPrompts(t *testing.T) {
	catalog := []*models.Prompt{
		{ID: 1, Title: "Minimalist logo brief", Category: models.CategoryArt, Tags: []string{"logo"}},
		{ID: 2, Title: "Watercolor landscape", Category: models.CategoryArt},
		{ID: 3, Title: "Logo copy generator", Category: models.CategoryWriting},
	}

	t.Run("empty filters return input unchanged", func(t *testing.T) {
		assert.Len(t, FilterPrompts(catalog, "", ""), 3)
	})

	t.Run("category narrows exactly", func(t *testing.T) {
		got := FilterPrompts(catalog, "Art", "")
		require.Len(t, got, 2)
		assert.Equal(t, uint(1), got[0].ID)
		assert.Equal(t, uint(2), got[1].ID)
	})

	t.Run("query spans title and tags", func(t *testing.T) {
		got := FilterPrompts(catalog, "", "logo")
		assert.Len(t, got, 2)
	})

	t.Run("category and query intersect", func(t *testing.T) {
		got := FilterPrompts(catalog, "Art", "logo")
		require.Len(t, got, 1)
		assert.Equal(t, uint(1), got[0].ID)
	})

	t.Run("no match yields empty non-nil slice", func(t *testing.T) {
		got := FilterPrompts(catalog, "Coding", "")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
