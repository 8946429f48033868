package flat_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/vector"
	"github.com/papershelf/papershelf/pkg/vector/flat"
)

var _ = Describe("Index", func() {
	var (
		ctx context.Context
		idx *flat.Index
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		idx, err = flat.NewIndex(flat.Config{Dimensions: 3})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewIndex", func() {
		It("rejects non-positive dimensions", func() {
			_, err := flat.NewIndex(flat.Config{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Append", func() {
		It("rejects vectors of the wrong dimensionality", func() {
			err := idx.Append(ctx, [][]float32{{1, 2}})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
			Expect(idx.Len()).To(Equal(0))
		})

		It("assigns sequential positions in append order", func() {
			Expect(idx.Append(ctx, [][]float32{{1, 0, 0}, {0, 1, 0}})).To(Succeed())
			Expect(idx.Append(ctx, [][]float32{{0, 0, 1}})).To(Succeed())
			Expect(idx.Len()).To(Equal(3))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			Expect(idx.Append(ctx, [][]float32{
				{0, 0, 0}, // position 0
				{1, 0, 0}, // position 1
				{5, 5, 5}, // position 2
				{0, 1, 0}, // position 3
			})).To(Succeed())
		})

		It("ranks the entire index by ascending distance", func() {
			hits, err := idx.Search(ctx, []float32{0, 0, 0}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(4))

			Expect(hits[0].Position).To(Equal(0))
			Expect(hits[3].Position).To(Equal(2))
			for i := 1; i < len(hits); i++ {
				Expect(hits[i].Distance).To(BeNumerically(">=", hits[i-1].Distance))
			}
		})

		It("limits results to k", func() {
			hits, err := idx.Search(ctx, []float32{0, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(2))
			Expect(hits[0].Position).To(Equal(0))
		})

		It("returns everything when k exceeds the index length", func() {
			hits, err := idx.Search(ctx, []float32{0, 0, 0}, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(4))
		})

		It("returns no hits for an empty index", func() {
			empty, err := flat.NewIndex(flat.Config{Dimensions: 3})
			Expect(err).NotTo(HaveOccurred())

			hits, err := empty.Search(ctx, []float32{0, 0, 0}, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(BeEmpty())
		})

		It("rejects a query of the wrong dimensionality", func() {
			_, err := idx.Search(ctx, []float32{0, 0}, 1)
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})
	})

	Describe("Snapshot and Restore", func() {
		It("round-trips the stored vectors", func() {
			vecs := [][]float32{{1, 2, 3}, {4, 5, 6}}
			Expect(idx.Append(ctx, vecs)).To(Succeed())

			snap := idx.Snapshot()
			Expect(snap).To(Equal(vecs))

			fresh, err := flat.NewIndex(flat.Config{Dimensions: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(fresh.Restore(snap)).To(Succeed())
			Expect(fresh.Len()).To(Equal(2))

			hits, err := fresh.Search(ctx, []float32{1, 2, 3}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits[0].Position).To(Equal(0))
		})

		It("returns copies that do not alias internal state", func() {
			Expect(idx.Append(ctx, [][]float32{{1, 2, 3}})).To(Succeed())

			snap := idx.Snapshot()
			snap[0][0] = 99

			again := idx.Snapshot()
			Expect(again[0][0]).To(Equal(float32(1)))
		})

		It("rejects restoring vectors of the wrong dimensionality", func() {
			err := idx.Restore([][]float32{{1}})
			Expect(err).To(MatchError(vector.ErrDimensionMismatch))
		})
	})
})
