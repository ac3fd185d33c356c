package user_test

import (
	"encoding/json"
	"strings"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("User", func() {
	var u *user.User

	BeforeEach(func() {
		u = user.NewUser()
	})

	Describe("UpdateName", func() {
		It("trims and stores a valid name", func() {
			Expect(u.UpdateName("  Jane Doe ")).To(Succeed())
			Expect(u.Name).To(Equal("Jane Doe"))
		})

		It("rejects an empty name", func() {
			err := u.UpdateName("   ")
			Expect(err).To(MatchError(internal.ErrValidation))
			Expect(err.Error()).To(ContainSubstring("name is required"))
		})

		It("rejects a name over the limit", func() {
			Expect(u.UpdateName(strings.Repeat("a", 101))).To(MatchError(internal.ErrValidation))
		})
	})

	Describe("UpdateEmail", func() {
		It("normalizes case", func() {
			Expect(u.UpdateEmail("Jane@Example.COM")).To(Succeed())
			Expect(u.Email).To(Equal("jane@example.com"))
		})

		It("rejects a malformed address", func() {
			Expect(u.UpdateEmail("not-an-email")).To(MatchError(internal.ErrValidation))
			Expect(u.Email).To(BeEmpty())
		})
	})

	Describe("UpdatePassword", func() {
		It("stores only a hash", func() {
			Expect(u.UpdatePassword("secret123", bcrypt.MinCost)).To(Succeed())
			Expect(u.PasswordHash).NotTo(BeEmpty())
			Expect(u.PasswordHash).NotTo(ContainSubstring("secret123"))
			Expect(u.CheckPassword("secret123")).To(BeTrue())
			Expect(u.CheckPassword("wrong")).To(BeFalse())
		})

		It("rejects a short password", func() {
			Expect(u.UpdatePassword("abc", bcrypt.MinCost)).To(MatchError(internal.ErrValidation))
			Expect(u.PasswordHash).To(BeEmpty())
		})
	})

	It("never serializes the password hash", func() {
		Expect(u.UpdateName("Jane")).To(Succeed())
		Expect(u.UpdatePassword("secret123", bcrypt.MinCost)).To(Succeed())

		raw, err := json.Marshal(u.ToResponse())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("password"))
		Expect(string(raw)).NotTo(ContainSubstring(u.PasswordHash))
	})

	It("round trips through the data model", func() {
		u.ID = 3
		Expect(u.UpdateName("Jane")).To(Succeed())
		Expect(u.UpdateEmail("jane@example.com")).To(Succeed())

		back := user.FromDataModel(user.ToDataModel(u))
		Expect(back).To(Equal(u))
	})
})
