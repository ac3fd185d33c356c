package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/audit"
	"github.com/frahmantamala/task-management/internal/cache"
	"github.com/frahmantamala/task-management/internal/core/common/optional"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"github.com/frahmantamala/task-management/internal/task"
	"github.com/frahmantamala/task-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

// MockRepository implements user.RepositoryAPI for testing
type MockRepository struct {
	users       map[int64]*userDatamodel.User
	tasksByUser map[int64][]int64
	nextID      int64
	shouldFail  bool
	failError   error
	createCalls int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:       make(map[int64]*userDatamodel.User),
		tasksByUser: make(map[int64][]int64),
		nextID:      1,
	}
}

func (m *MockRepository) GetByID(_ context.Context, id int64) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, internal.NewNotFoundError("User not found.", internal.ErrCodeUserNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *MockRepository) GetByEmail(_ context.Context, email string) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, internal.NewNotFoundError("User not found.", internal.ErrCodeUserNotFound)
}

func (m *MockRepository) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) GetAll(_ context.Context) ([]*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.sorted(), nil
}

func (m *MockRepository) ListByPage(_ context.Context, params pagination.Params, filter user.PageFilter) ([]*userDatamodel.User, int64, error) {
	if m.shouldFail {
		return nil, 0, m.failError
	}
	var matched []*userDatamodel.User
	for _, u := range m.sorted() {
		if strings.Contains(u.Name, filter.Name) && strings.Contains(u.Email, filter.Email) {
			matched = append(matched, u)
		}
	}
	total := int64(len(matched))
	start := params.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *MockRepository) Search(_ context.Context, name string) ([]*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*userDatamodel.User
	for _, u := range m.sorted() {
		if strings.Contains(u.Name, name) {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *MockRepository) Create(_ context.Context, u *userDatamodel.User) (*userDatamodel.User, error) {
	m.createCalls++
	if m.shouldFail {
		return nil, m.failError
	}
	now := time.Now()
	stored := *u
	stored.ID = m.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.nextID++
	m.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (m *MockRepository) Update(_ context.Context, u *userDatamodel.User) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	existing, ok := m.users[u.ID]
	if !ok {
		return nil, internal.NewNotFoundError("User not found.", internal.ErrCodeUserNotFound)
	}
	existing.Name = u.Name
	existing.Email = u.Email
	existing.PasswordHash = u.PasswordHash
	existing.UpdatedAt = time.Now()
	copied := *existing
	return &copied, nil
}

func (m *MockRepository) Delete(_ context.Context, id int64) ([]int64, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	taskIDs := m.tasksByUser[id]
	delete(m.tasksByUser, id)
	delete(m.users, id)
	return taskIDs, nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) sorted() []*userDatamodel.User {
	result := make([]*userDatamodel.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type recordingAuditor struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingAuditor) Record(_ context.Context, entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingAuditor) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := make([]string, len(r.entries))
	for i, e := range r.entries {
		messages[i] = e.Message()
	}
	return messages
}

var _ = Describe("User Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		auditor  *recordingAuditor
		store    *cache.MemoryStore
		service  *user.Service
		logger   *slog.Logger
	)

	register := func(name, email string) *user.UserResponse {
		created, err := service.Create(ctx, user.CreateUserDTO{
			Name:     optional.Of(name),
			Email:    optional.Of(email),
			Password: optional.Of("secret123"),
		})
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		auditor = &recordingAuditor{}
		store = cache.NewMemoryStore(cache.DefaultMemoryConfig())
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		opts := internal.ServiceOptions{CacheEnabled: true, AuditEnabled: true, DefaultPerPage: 5}
		service = user.NewService(mockRepo, cache.New(store, logger), auditor, opts, bcrypt.MinCost, logger)
	})

	Describe("Create", func() {
		It("requires every field", func() {
			_, err := service.Create(ctx, user.CreateUserDTO{
				Name:  optional.Of("Jane"),
				Email: optional.Of("jane@example.com"),
			})
			Expect(err).To(MatchError(internal.ErrValidation))
			Expect(err.Error()).To(ContainSubstring("password is required"))
			Expect(mockRepo.createCalls).To(BeZero())
		})

		It("hashes the password and hides it from the response", func() {
			created := register("Jane", "jane@example.com")
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.Email).To(Equal("jane@example.com"))

			stored := mockRepo.users[created.ID]
			Expect(stored.PasswordHash).NotTo(Equal("secret123"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123"))).To(Succeed())
		})

		It("rejects a registered email before writing", func() {
			register("Jane", "jane@example.com")

			_, err := service.Create(ctx, user.CreateUserDTO{
				Name:     optional.Of("Other"),
				Email:    optional.Of("JANE@example.com"),
				Password: optional.Of("secret123"),
			})
			Expect(err).To(MatchError(internal.ErrConflict))
			Expect(err.Error()).To(ContainSubstring("Email already exists."))
			Expect(mockRepo.createCalls).To(Equal(1))
		})

		It("writes through to the cache and audits", func() {
			created := register("Jane", "jane@example.com")

			_, hit, _ := store.Get(ctx, cache.Key(user.EntityType, created.ID, 0))
			Expect(hit).To(BeTrue())
			Expect(auditor.Messages()).To(ConsistOf("The user with the ID 1 has created successfully."))
		})
	})

	Describe("Update", func() {
		It("refuses a caller other than the user", func() {
			created := register("Jane", "jane@example.com")

			_, err := service.Update(ctx, created.ID, created.ID+1, user.UpdateUserDTO{Name: optional.Of("Hacker")})
			Expect(err).To(MatchError(internal.ErrPermission))
			Expect(err.Error()).To(ContainSubstring("User permission failed."))
			Expect(mockRepo.users[created.ID].Name).To(Equal("Jane"))
		})

		It("requires at least one field", func() {
			created := register("Jane", "jane@example.com")

			_, err := service.Update(ctx, created.ID, created.ID, user.UpdateUserDTO{})
			Expect(err).To(MatchError(internal.ErrValidation))
			Expect(err.Error()).To(ContainSubstring("enter the data to update"))
		})

		It("changes only the supplied fields", func() {
			created := register("Jane", "jane@example.com")
			hashBefore := mockRepo.users[created.ID].PasswordHash

			updated, err := service.Update(ctx, created.ID, created.ID, user.UpdateUserDTO{Name: optional.Of("Janet")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Janet"))
			Expect(updated.Email).To(Equal("jane@example.com"))
			Expect(mockRepo.users[created.ID].PasswordHash).To(Equal(hashBefore))
		})

		It("rejects an email owned by someone else", func() {
			register("Jane", "jane@example.com")
			other := register("John", "john@example.com")

			_, err := service.Update(ctx, other.ID, other.ID, user.UpdateUserDTO{Email: optional.Of("jane@example.com")})
			Expect(err).To(MatchError(internal.ErrConflict))
		})

		It("refreshes the cached copy", func() {
			created := register("Jane", "jane@example.com")
			_, err := service.Update(ctx, created.ID, created.ID, user.UpdateUserDTO{Name: optional.Of("Janet")})
			Expect(err).NotTo(HaveOccurred())

			mockRepo.SetShouldFail(true, errors.New("db down"))
			found, err := service.GetOne(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Janet"))
		})
	})

	Describe("Delete", func() {
		It("refuses a caller other than the user", func() {
			created := register("Jane", "jane@example.com")

			err := service.Delete(ctx, created.ID, 99)
			Expect(err).To(MatchError(internal.ErrPermission))
			Expect(mockRepo.users).To(HaveKey(created.ID))
		})

		It("propagates not found", func() {
			Expect(service.Delete(ctx, 42, 42)).To(MatchError(internal.ErrNotFound))
		})

		It("invalidates the user and its cached tasks", func() {
			created := register("Jane", "jane@example.com")
			mockRepo.tasksByUser[created.ID] = []int64{7, 8}
			c := cache.New(store, logger)
			c.Put(ctx, task.EntityType, 7, created.ID, task.TaskResponse{ID: 7})
			c.Put(ctx, task.EntityType, 8, created.ID, task.TaskResponse{ID: 8})

			Expect(service.Delete(ctx, created.ID, created.ID)).To(Succeed())

			for _, key := range []string{
				cache.Key(user.EntityType, created.ID, 0),
				cache.Key(task.EntityType, 7, created.ID),
				cache.Key(task.EntityType, 8, created.ID),
			} {
				_, hit, _ := store.Get(ctx, key)
				Expect(hit).To(BeFalse(), key)
			}
			_, err := service.GetOne(ctx, created.ID)
			Expect(err).To(MatchError(internal.ErrNotFound))
		})
	})

	Describe("Search", func() {
		It("raises not found when nothing matches", func() {
			register("Jane", "jane@example.com")

			_, err := service.Search(ctx, "zzz")
			Expect(err).To(MatchError(internal.ErrNotFound))
			Expect(err.Error()).To(ContainSubstring("User name not found."))
		})

		It("returns matching users", func() {
			register("Jane", "jane@example.com")
			register("John", "john@example.com")

			users, err := service.Search(ctx, "Ja")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Name).To(Equal("Jane"))
		})
	})

	Describe("GetPage", func() {
		It("normalizes page and perPage", func() {
			for i := 0; i < 7; i++ {
				register("User", "user"+string(rune('a'+i))+"@example.com")
			}

			page, err := service.GetPage(ctx, 0, 0, user.PageFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Page).To(Equal(1))
			Expect(page.PerPage).To(Equal(5))
			Expect(page.Items).To(HaveLen(5))
			Expect(page.Total).To(Equal(int64(7)))
			Expect(page.TotalPages).To(Equal(2))
		})
	})

	Describe("Authenticate", func() {
		It("accepts the right password", func() {
			created := register("Jane", "jane@example.com")

			u, err := service.Authenticate(ctx, "Jane@example.com", "secret123")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(Equal(created.ID))
		})

		It("reports an unknown email and a wrong password the same way", func() {
			register("Jane", "jane@example.com")

			_, wrongPassword := service.Authenticate(ctx, "jane@example.com", "nope")
			_, unknownEmail := service.Authenticate(ctx, "ghost@example.com", "secret123")
			Expect(internal.KindOf(wrongPassword)).To(Equal(internal.ErrorTypeUnauthorized))
			Expect(unknownEmail).To(MatchError(wrongPassword.Error()))
		})
	})
})
