package plaintext_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/extract/plaintext"
)

var _ = Describe("Extractor", func() {
	var (
		e   *plaintext.Extractor
		dir string
	)

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		e = plaintext.NewExtractor(plaintext.Config{MinWords: 5})
		dir = GinkgoT().TempDir()
	})

	It("extracts paragraphs with page 1", func() {
		path := writeFile("notes.txt",
			"alpha beta gamma delta epsilon\n\nzeta eta theta iota kappa")

		chunks, err := e.Extract(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(2))
		Expect(chunks[0].Page).To(Equal(1))
		Expect(chunks[1].Page).To(Equal(1))
	})

	It("fails when the file has no usable paragraphs", func() {
		path := writeFile("empty.txt", "too short\n\nalso short")

		_, err := e.Extract(path)
		Expect(err).To(HaveOccurred())
	})

	It("fails when the file does not exist", func() {
		_, err := e.Extract(filepath.Join(dir, "missing.txt"))
		Expect(err).To(HaveOccurred())
	})
})
