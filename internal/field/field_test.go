package field_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bridgeviz/internal/field"
)

var _ = Describe("Field", func() {
	f := field.Field{
		1: {0, 10},
		2: {0, 20, 30},
	}

	It("reads stored values", func() {
		Expect(f.At(1, 1)).To(Equal(10.0))
		Expect(f.At(2, 2)).To(Equal(30.0))
	})

	It("reads missing nodes and steps as zero", func() {
		Expect(f.At(3, 0)).To(Equal(0.0))
		Expect(f.At(1, 4)).To(Equal(0.0))
		Expect(f.At(1, -1)).To(Equal(0.0))
	})

	It("pads series to the step count", func() {
		Expect(f.Series(1, 4)).To(Equal([]float64{0, 10, 0, 0}))
		Expect(f.Series(9, 2)).To(Equal([]float64{0, 0}))
	})
})

var _ = Describe("Set", func() {
	var set *field.Set

	BeforeEach(func() {
		var err error
		set, err = field.NewSet(5)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Add("U1", field.Field{1: {1, 2, 3, 4, 5}})).To(Succeed())
		Expect(set.Add("U2", nil)).To(Succeed())
	})

	It("rejects a non-positive step count", func() {
		_, err := field.NewSet(0)
		Expect(err).To(MatchError(field.ErrNoSteps))
	})

	It("keeps variables in insertion order", func() {
		Expect(set.Variables()).To(Equal([]string{"U1", "U2"}))
		Expect(set.Len()).To(Equal(2))
		Expect(set.Steps()).To(Equal(5))
	})

	It("rejects duplicates", func() {
		Expect(set.Add("U1", nil)).To(MatchError(field.ErrDuplicate))
	})

	It("looks up fields by name", func() {
		u1, err := set.Get("U1")
		Expect(err).NotTo(HaveOccurred())
		Expect(u1.At(1, 4)).To(Equal(5.0))

		u2, err := set.Get("U2")
		Expect(err).NotTo(HaveOccurred())
		Expect(u2.At(1, 0)).To(Equal(0.0))

		_, err = set.Get("R9")
		Expect(err).To(MatchError(field.ErrUnknownVariable))
		Expect(set.Has("R9")).To(BeFalse())
	})

	It("cycles through variables", func() {
		Expect(set.Next("U1")).To(Equal("U2"))
		Expect(set.Next("U2")).To(Equal("U1"))
		Expect(set.Next("nope")).To(Equal("U1"))
	})
})

var _ = Describe("Range", func() {
	It("leaves a proper range alone", func() {
		Expect(field.Span(0.5, 3, -1, 2)).To(Equal(field.Range{Min: -1, Max: 3}))
	})

	It("widens a degenerate range symmetrically", func() {
		r := field.Span(0.5, 7, 7, 7)
		Expect(r.Min).To(BeNumerically("~", 6.5, 1e-12))
		Expect(r.Max).To(BeNumerically("~", 7.5, 1e-12))
	})

	It("falls back to the default margin", func() {
		r := field.Range{Min: 2, Max: 2}.Widen(0)
		Expect(r).To(Equal(field.Range{Min: 1.5, Max: 2.5}))
	})

	It("ignores non-finite values and treats an empty set as zero", func() {
		var acc field.Accumulator
		acc.Add(math.NaN(), math.Inf(1), math.Inf(-1))
		Expect(acc.Count()).To(Equal(0))
		Expect(acc.Range(0.5)).To(Equal(field.Range{Min: -0.5, Max: 0.5}))
	})

	It("reports containment and span", func() {
		r := field.Range{Min: 0, Max: 20}
		Expect(r.Span()).To(Equal(20.0))
		Expect(r.Contains(15)).To(BeTrue())
		Expect(r.Contains(21)).To(BeFalse())
	})
})
