package task_test

import (
	"strings"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/task"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Task entity", func() {
	var t *task.Task

	BeforeEach(func() {
		t = task.NewTask(7)
	})

	It("starts open and owned by the given user", func() {
		Expect(t.UserID).To(Equal(int64(7)))
		Expect(t.Status).To(Equal(task.StatusOpen))
		Expect(t.IsDone()).To(BeFalse())
	})

	Describe("UpdateName", func() {
		It("trims and applies a valid name", func() {
			Expect(t.UpdateName("  write report ")).To(Succeed())
			Expect(t.Name).To(Equal("write report"))
		})

		It("rejects an empty name", func() {
			err := t.UpdateName("   ")
			Expect(err).To(MatchError(internal.ErrValidation))
			Expect(t.Name).To(BeEmpty())
		})

		It("rejects a name that is too long", func() {
			err := t.UpdateName(strings.Repeat("a", 101))
			Expect(err).To(HaveOccurred())
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("UpdateStatus", func() {
		It("accepts done", func() {
			Expect(t.UpdateStatus(task.StatusDone)).To(Succeed())
			Expect(t.IsDone()).To(BeTrue())
		})

		It("rejects values outside 0 and 1", func() {
			err := t.UpdateStatus(2)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			Expect(details.Errors[0].Field).To(Equal("status"))
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidStatus)))
			Expect(t.Status).To(Equal(task.StatusOpen))
		})
	})

	Describe("UpdateDescription", func() {
		It("allows an empty description", func() {
			Expect(t.UpdateDescription("")).To(Succeed())
		})

		It("rejects a description that is too long", func() {
			Expect(t.UpdateDescription(strings.Repeat("d", 501))).NotTo(Succeed())
		})
	})

	It("round-trips through the data model", func() {
		Expect(t.UpdateName("ship it")).To(Succeed())
		t.ID = 3

		back := task.FromDataModel(task.ToDataModel(t))
		Expect(back).To(Equal(t))
		Expect(back.ToResponse().Name).To(Equal("ship it"))
	})
})
