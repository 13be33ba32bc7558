package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
)

var mockClock = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// mockUserRepository is an in-memory UserRepository
type mockUserRepository struct {
	users map[string]*models.User // id -> user
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*models.User)}
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user: %w", repository.ErrNotFound)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", repository.ErrNotFound)
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	created := *user
	created.CreatedAt = mockClock
	m.users[created.ID] = &created
	return &created, nil
}

// mockFormRepository is an in-memory FormRepository. Response counts are
// taken from the linked response repository when set.
type mockFormRepository struct {
	forms     map[string]*models.Form // id -> form
	responses *mockResponseRepository
	takenCode map[string]bool
	getErr    error
}

func newMockFormRepository() *mockFormRepository {
	return &mockFormRepository{
		forms:     make(map[string]*models.Form),
		takenCode: make(map[string]bool),
	}
}

func (m *mockFormRepository) withCount(f *models.Form) *models.Form {
	out := *f
	if m.responses != nil {
		out.ResponseCount, _ = m.responses.CountByForm(context.Background(), f.ID)
	}
	return &out
}

func (m *mockFormRepository) Create(ctx context.Context, form *models.Form) (*models.Form, error) {
	if m.takenCode[form.FormCode] {
		return nil, fmt.Errorf("create form: %w", repository.ErrDuplicate)
	}
	created := *form
	created.CreatedAt = mockClock
	created.UpdatedAt = mockClock
	created.ResponseCount = 0
	m.forms[created.ID] = &created
	m.takenCode[created.FormCode] = true
	out := created
	return &out, nil
}

func (m *mockFormRepository) GetByID(ctx context.Context, id string) (*models.Form, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if f, ok := m.forms[id]; ok {
		return m.withCount(f), nil
	}
	return nil, fmt.Errorf("get form: %w", repository.ErrNotFound)
}

func (m *mockFormRepository) GetByCode(ctx context.Context, code string) (*models.Form, error) {
	for _, f := range m.forms {
		if f.FormCode == code {
			return m.withCount(f), nil
		}
	}
	return nil, fmt.Errorf("get form by code: %w", repository.ErrNotFound)
}

func (m *mockFormRepository) ListByUser(ctx context.Context, userID string, deleted bool) ([]models.Form, error) {
	out := []models.Form{}
	for _, f := range m.forms {
		if f.UserID == userID && f.IsDeleted == deleted {
			out = append(out, *m.withCount(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockFormRepository) Update(ctx context.Context, form *models.Form) (*models.Form, error) {
	if _, ok := m.forms[form.ID]; !ok {
		return nil, fmt.Errorf("update form: %w", repository.ErrNotFound)
	}
	updated := *form
	updated.UpdatedAt = mockClock.Add(time.Minute)
	m.forms[form.ID] = &updated
	out := updated
	return &out, nil
}

func (m *mockFormRepository) SetDeleted(ctx context.Context, id string, deletedAt *time.Time) error {
	f, ok := m.forms[id]
	if !ok {
		return fmt.Errorf("set form deleted: %w", repository.ErrNotFound)
	}
	f.IsDeleted = deletedAt != nil
	f.DeletedAt = deletedAt
	return nil
}

func (m *mockFormRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.forms[id]; !ok {
		return fmt.Errorf("delete form: %w", repository.ErrNotFound)
	}
	delete(m.forms, id)
	return nil
}

func (m *mockFormRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return m.takenCode[code], nil
}

// mockResponseRepository is an in-memory ResponseRepository
type mockResponseRepository struct {
	mu        sync.Mutex
	responses []models.Response
	countErr  error
	listCalls map[string]int
}

func newMockResponseRepository() *mockResponseRepository {
	return &mockResponseRepository{listCalls: make(map[string]int)}
}

func (m *mockResponseRepository) add(formID string, at time.Time, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, models.Response{
		ID:           fmt.Sprintf("r-%d", len(m.responses)+1),
		FormID:       formID,
		ResponseData: json.RawMessage(data),
		SubmittedAt:  at,
	})
}

func (m *mockResponseRepository) Create(ctx context.Context, response *models.Response) (*models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *response
	created.SubmittedAt = mockClock
	m.responses = append(m.responses, created)
	return &created, nil
}

func (m *mockResponseRepository) CountByForm(ctx context.Context, formID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	n := 0
	for _, r := range m.responses {
		if r.FormID == formID {
			n++
		}
	}
	return n, nil
}

func (m *mockResponseRepository) ListByForm(ctx context.Context, formID string) ([]models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls["all"]++
	out := []models.Response{}
	for _, r := range m.responses {
		if r.FormID == formID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (m *mockResponseRepository) ListByFormSince(ctx context.Context, formID string, since time.Time) ([]models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls["since"]++
	out := []models.Response{}
	for _, r := range m.responses {
		if r.FormID == formID && !r.SubmittedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

// seedForm stores a live form owned by userID and returns it
func seedForm(repo *mockFormRepository, userID string, fields ...models.FieldSchema) *models.Form {
	f := &models.Form{
		ID:       NewID(),
		UserID:   userID,
		Title:    "Customer survey",
		FormCode: GenerateFormCode(),
		Fields:   fields,
	}
	created, _ := repo.Create(context.Background(), f)
	return created
}
