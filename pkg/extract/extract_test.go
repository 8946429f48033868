package extract_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/extract"
)

var _ = Describe("Paragraphs", func() {
	It("splits on blank lines", func() {
		text := "one two three four five six seven eight nine ten\n\n" +
			"uno dos tres cuatro cinco seis siete ocho nueve diez"

		chunks := extract.Paragraphs(text, 3, 10)
		Expect(chunks).To(HaveLen(2))
		Expect(chunks[0].Page).To(Equal(3))
		Expect(chunks[1].Page).To(Equal(3))
	})

	It("drops paragraphs below the word threshold", func() {
		text := "Short heading\n\n" +
			"one two three four five six seven eight nine ten"

		chunks := extract.Paragraphs(text, 1, 10)
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].Text).To(HavePrefix("one"))
	})

	It("trims surrounding whitespace from each paragraph", func() {
		text := "  one two three four five  "

		chunks := extract.Paragraphs(text, 1, 5)
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].Text).To(Equal("one two three four five"))
	})

	It("returns nothing for empty text", func() {
		Expect(extract.Paragraphs("", 1, 10)).To(BeEmpty())
		Expect(extract.Paragraphs("\n\n\n\n", 1, 10)).To(BeEmpty())
	})
})
