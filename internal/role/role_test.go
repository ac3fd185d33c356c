package role_test

import (
	"errors"
	"strings"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/role"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Role entity", func() {
	var r *role.Role

	BeforeEach(func() {
		r = role.NewRole()
	})

	It("trims and applies a valid name", func() {
		Expect(r.UpdateName("  admin ")).To(Succeed())
		Expect(r.Name).To(Equal("admin"))
	})

	It("rejects a blank name", func() {
		err := r.UpdateName("   ")
		Expect(errors.Is(err, internal.ErrValidation)).To(BeTrue())
		Expect(err.Error()).To(Equal("name is required"))
	})

	It("rejects a name over 50 characters", func() {
		err := r.UpdateName(strings.Repeat("a", 51))
		Expect(err).To(MatchError("name must not exceed 50 characters"))
		Expect(r.Name).To(BeEmpty())
	})

	It("allows an empty description but caps its length", func() {
		Expect(r.UpdateDescription("")).To(Succeed())
		Expect(r.UpdateDescription(strings.Repeat("d", 256))).To(MatchError("description must not exceed 255 characters"))
	})
})
