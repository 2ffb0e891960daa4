package handoff_test

import (
	"github.com/andriiyaremenko/handoff"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transform", func() {
	It("can square and double numbers", func() {
		Expect(handoff.Square[int]()(6)).To(Equal(36))
		Expect(handoff.Square[float64]()(1.5)).To(Equal(2.25))
		Expect(handoff.Double[int]()(6)).To(Equal(12))
		Expect(handoff.Double[int64]()(-4)).To(Equal(int64(-8)))
	})

	It("can pass value through", func() {
		Expect(handoff.Identity[string]()("z")).To(Equal("z"))
	})

	It("can chain transforms from left to right", func() {
		fn := handoff.Chain(handoff.Double[int](), handoff.Square[int]())
		Expect(fn(3)).To(Equal(36))

		fn = handoff.Chain(handoff.Square[int](), handoff.Double[int]())
		Expect(fn(3)).To(Equal(18))

		Expect(handoff.Chain(handoff.Double[int]())(3)).To(Equal(6))
	})

	It("can parse transform names", func() {
		fn, err := handoff.ParseTransform[int]("square")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(fn(7)).To(Equal(49))

		fn, err = handoff.ParseTransform[int](" Double , square")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(fn(3)).To(Equal(36))

		fn, err = handoff.ParseTransform[int]("identity")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(fn(3)).To(Equal(3))
	})

	It("should reject unknown transform names", func() {
		_, err := handoff.ParseTransform[int]("cube")
		Expect(err).Should(MatchError(handoff.ErrUnknownTransform))
		Expect(err).Should(MatchError(`unknown transform: "cube"`))

		_, err = handoff.ParseTransform[int]("square,")
		Expect(err).Should(MatchError(handoff.ErrUnknownTransform))
	})
})
