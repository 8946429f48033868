package doc2vec_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/embeddings/doc2vec"
)

var _ = Describe("Preprocess", func() {
	It("lowercases tokens", func() {
		Expect(doc2vec.Preprocess("Machine LEARNING")).To(Equal([]string{"machine", "learning"}))
	})

	It("strips accents", func() {
		Expect(doc2vec.Preprocess("café résumé naïve")).To(Equal([]string{"cafe", "resume", "naive"}))
	})

	It("splits on punctuation and whitespace", func() {
		Expect(doc2vec.Preprocess("end-to-end, (really)")).To(
			Equal([]string{"end", "to", "end", "really"}))
	})

	It("drops single-rune tokens", func() {
		Expect(doc2vec.Preprocess("a b cd")).To(Equal([]string{"cd"}))
	})

	It("drops overly long tokens", func() {
		long := "pneumonoultramicroscopic"
		Expect(doc2vec.Preprocess(long + " ok")).To(Equal([]string{"ok"}))
	})

	It("returns no tokens for empty input", func() {
		Expect(doc2vec.Preprocess("")).To(BeEmpty())
		Expect(doc2vec.Preprocess("   \t\n")).To(BeEmpty())
	})

	It("keeps digit tokens", func() {
		Expect(doc2vec.Preprocess("gpt 35 turbo")).To(Equal([]string{"gpt", "35", "turbo"}))
	})
})
