package task_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/audit"
	"github.com/frahmantamala/task-management/internal/cache"
	"github.com/frahmantamala/task-management/internal/core/common/persistence/sqlitetest"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	"github.com/frahmantamala/task-management/internal/task"
	taskPostgres "github.com/frahmantamala/task-management/internal/task/postgres"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

var _ = Describe("Task Handler Integration", func() {
	var (
		router  *chi.Mux
		slogger *slog.Logger
		userID  int64
	)

	do := func(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
		var reader *bytes.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(raw)
		} else {
			reader = bytes.NewReader(nil)
		}

		req := httptest.NewRequest(method, path, reader)
		req = req.WithContext(internal.ContextWithUserID(req.Context(), userID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		if w.Body.Len() > 0 {
			Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		}
		return w, env
	}

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		userID = 1

		db, err := sqlitetest.Open(&taskDatamodel.Task{})
		Expect(err).NotTo(HaveOccurred())

		repo := taskPostgres.NewTaskRepository(db)
		service := task.NewService(repo, cache.New(cache.NewMemoryStore(cache.DefaultMemoryConfig()), slogger), audit.Nop{},
			internal.ServiceOptions{CacheEnabled: true, DefaultPerPage: 5}, slogger)
		handler := task.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/tasks", handler.GetTasks)
		router.Post("/tasks", handler.CreateTask)
		router.Get("/tasks/search/{query}", handler.SearchTasks)
		router.Get("/tasks/{id}", handler.GetTask)
		router.Put("/tasks/{id}", handler.UpdateTask)
		router.Delete("/tasks/{id}", handler.DeleteTask)
	})

	It("creates a task with 201 and a success envelope", func() {
		w, env := do(http.MethodPost, "/tasks", map[string]interface{}{"name": "first", "description": "desc"})

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		Expect(env.Status).To(Equal(transport.StatusSuccess))

		var created task.TaskResponse
		Expect(json.Unmarshal(env.Data, &created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.Status).To(Equal(task.StatusOpen))
	})

	It("maps a missing name to 400", func() {
		w, env := do(http.MethodPost, "/tasks", map[string]interface{}{"description": "no name"})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Status).To(Equal(transport.StatusError))
		Expect(env.Message).To(Equal("name is required"))
	})

	It("maps a foreign task to 404", func() {
		w, _ := do(http.MethodPost, "/tasks", map[string]interface{}{"name": "mine"})
		Expect(w.Code).To(Equal(http.StatusCreated))

		userID = 2
		w, env := do(http.MethodDelete, "/tasks/1", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Task not found."))
	})

	It("updates and deletes a task", func() {
		do(http.MethodPost, "/tasks", map[string]interface{}{"name": "todo"})

		w, env := do(http.MethodPut, "/tasks/1", map[string]interface{}{"status": 1})
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated task.TaskResponse
		Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
		Expect(updated.Status).To(Equal(task.StatusDone))
		Expect(updated.Name).To(Equal("todo"))

		w, _ = do(http.MethodDelete, "/tasks/1", nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w, _ = do(http.MethodGet, "/tasks/1", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects an update without fields", func() {
		do(http.MethodPost, "/tasks", map[string]interface{}{"name": "todo"})

		w, env := do(http.MethodPut, "/tasks/1", map[string]interface{}{})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("enter the data to update"))
	})

	It("pages when asked and lists everything otherwise", func() {
		for _, name := range []string{"a", "b", "c"} {
			do(http.MethodPost, "/tasks", map[string]interface{}{"name": name})
		}

		w, env := do(http.MethodGet, "/tasks?page=1&perPage=2", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var page struct {
			Items      []task.TaskResponse `json:"items"`
			Total      int64               `json:"total"`
			TotalPages int                 `json:"total_pages"`
		}
		Expect(json.Unmarshal(env.Data, &page)).To(Succeed())
		Expect(page.Items).To(HaveLen(2))
		Expect(page.Total).To(Equal(int64(3)))
		Expect(page.TotalPages).To(Equal(2))

		_, env = do(http.MethodGet, "/tasks", nil)
		var all []task.TaskResponse
		Expect(json.Unmarshal(env.Data, &all)).To(Succeed())
		Expect(all).To(HaveLen(3))
	})

	It("returns an empty list for a search without matches", func() {
		w, env := do(http.MethodGet, "/tasks/search/zzz", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(Equal("[]"))
	})

	It("rejects a non numeric id", func() {
		w, _ := do(http.MethodGet, "/tasks/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
