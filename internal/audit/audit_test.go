package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/frahmantamala/task-management/internal/audit"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Entry", func() {
	It("renders the audit line", func() {
		entry := audit.NewEntry("task", 12, 3, audit.ActionCreated)
		Expect(entry.Message()).To(Equal("The task with the ID 12 has created successfully."))
		Expect(entry.OccurredAt).NotTo(BeZero())
	})
})

var _ = Describe("Bus", func() {
	var slogger *slog.Logger

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	It("delivers to every sink synchronously", func() {
		bus := audit.NewSyncBus(slogger)
		var first, second []audit.Entry
		bus.Subscribe(audit.SinkFunc(func(_ context.Context, e audit.Entry) error {
			first = append(first, e)
			return nil
		}))
		bus.Subscribe(audit.SinkFunc(func(_ context.Context, e audit.Entry) error {
			second = append(second, e)
			return nil
		}))

		bus.Record(context.Background(), audit.NewEntry("user", 1, 0, audit.ActionDeleted))

		Expect(first).To(HaveLen(1))
		Expect(second).To(HaveLen(1))
		Expect(first[0].Action).To(Equal(audit.ActionDeleted))
	})

	It("keeps going when a sink fails", func() {
		bus := audit.NewSyncBus(slogger)
		delivered := 0
		bus.Subscribe(audit.SinkFunc(func(context.Context, audit.Entry) error {
			return errors.New("disk full")
		}))
		bus.Subscribe(audit.SinkFunc(func(context.Context, audit.Entry) error {
			delivered++
			return nil
		}))

		bus.Record(context.Background(), audit.NewEntry("role", 4, 0, audit.ActionUpdated))
		Expect(delivered).To(Equal(1))
	})

	It("finishes asynchronous writes on Wait even after the request is cancelled", func() {
		bus := audit.NewBus(slogger)
		var (
			mu   sync.Mutex
			seen []error
		)
		bus.Subscribe(audit.SinkFunc(func(ctx context.Context, _ audit.Entry) error {
			time.Sleep(10 * time.Millisecond)
			mu.Lock()
			seen = append(seen, ctx.Err())
			mu.Unlock()
			return nil
		}))

		ctx, cancel := context.WithCancel(context.Background())
		bus.Record(ctx, audit.NewEntry("task", 1, 1, audit.ActionCreated))
		cancel()
		bus.Wait()

		mu.Lock()
		defer mu.Unlock()
		Expect(seen).To(HaveLen(1))
		Expect(seen[0]).NotTo(HaveOccurred())
	})

	It("ignores entries without sinks", func() {
		bus := audit.NewSyncBus(slogger)
		Expect(func() {
			bus.Record(context.Background(), audit.NewEntry("task", 1, 1, audit.ActionCreated))
		}).NotTo(Panic())
	})
})

var _ = Describe("FileSink", func() {
	It("appends each entry to the daily log", func() {
		dir := GinkgoT().TempDir()
		sink, err := audit.NewFileSink(filepath.Join(dir, "audit"))
		Expect(err).NotTo(HaveOccurred())

		Expect(sink.Write(context.Background(), audit.NewEntry("task", 5, 1, audit.ActionCreated))).To(Succeed())
		Expect(sink.WriteLine("The user with the ID 2 has deleted successfully.", "entity", "user")).To(Succeed())
		Expect(sink.Close()).To(Succeed())

		path := filepath.Join(dir, "audit", time.Now().Format("20060102")+".log")
		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("The task with the ID 5 has created successfully."))
		Expect(string(content)).To(ContainSubstring("entity_id=5"))
		Expect(string(content)).To(ContainSubstring("The user with the ID 2 has deleted successfully."))
	})

	It("closes idempotently", func() {
		sink, err := audit.NewFileSink(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(sink.Close()).To(Succeed())
		Expect(sink.Close()).To(Succeed())
	})
})
