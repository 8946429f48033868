package answer_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/answer"
	"github.com/papershelf/papershelf/pkg/store"
	testutils "github.com/papershelf/papershelf/pkg/utils/test"
)

var _ = Describe("CleanResponse", func() {
	It("collapses whitespace into single spaces", func() {
		Expect(answer.CleanResponse("a\nb\t c\n\nd")).To(Equal("a b c d"))
	})

	It("returns empty for whitespace-only input", func() {
		Expect(answer.CleanResponse(" \n\t ")).To(Equal(""))
	})
})

var _ = Describe("Service", func() {
	var (
		ctx    context.Context
		gen    *testutils.MockGenerator
		svc    *answer.Service
		chunks []store.Chunk
	)

	BeforeEach(func() {
		ctx = context.Background()
		gen = testutils.NewMockGenerator("generated text")
		svc = answer.NewService(gen, nil)
		chunks = []store.Chunk{
			{Text: "The methodology uses gradient descent", Page: 3},
			{Text: "Results show a 12% improvement", Page: 7},
		}
	})

	Describe("document tasks", func() {
		It("summarizes from the chunk texts", func() {
			out, err := svc.Summarize(ctx, chunks)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("generated text"))

			Expect(gen.Prompts).To(HaveLen(1))
			Expect(gen.Prompts[0]).To(ContainSubstring("gradient descent"))
			Expect(gen.Prompts[0]).To(ContainSubstring("12% improvement"))
		})

		It("cleans multi-line completions", func() {
			gen.Response = "line one\nline two"

			out, err := svc.Abstract(ctx, chunks)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("line one line two"))
		})

		It("includes page numbers in the results prompt", func() {
			_, err := svc.ResultsDiscussion(ctx, chunks)
			Expect(err).NotTo(HaveOccurred())
			Expect(gen.Prompts[0]).To(ContainSubstring("[3 7]"))
		})

		It("propagates generator failures", func() {
			gen.Fail = true

			_, err := svc.Keywords(ctx, chunks)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Answer", func() {
		It("narrows chunks to the detected sections", func() {
			gen.Responses = []string{"results", "final answer"}

			out, err := svc.Answer(ctx, "what improved?", chunks)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("final answer"))

			Expect(gen.Prompts).To(HaveLen(2))
			Expect(gen.Prompts[0]).To(ContainSubstring("what improved?"))
			Expect(gen.Prompts[1]).To(ContainSubstring("12% improvement"))
			Expect(gen.Prompts[1]).NotTo(ContainSubstring("gradient descent"))
		})

		It("falls back to all chunks when no section matches", func() {
			gen.Responses = []string{"references", "final answer"}

			_, err := svc.Answer(ctx, "who wrote this?", chunks)
			Expect(err).NotTo(HaveOccurred())

			Expect(gen.Prompts[1]).To(ContainSubstring("gradient descent"))
			Expect(gen.Prompts[1]).To(ContainSubstring("12% improvement"))
		})
	})

	Describe("without a generator", func() {
		BeforeEach(func() {
			svc = answer.NewService(nil, nil)
		})

		It("reports unconfigured", func() {
			Expect(svc.Configured()).To(BeFalse())
		})

		It("returns ErrNotConfigured from every task", func() {
			_, err := svc.Summarize(ctx, chunks)
			Expect(err).To(MatchError(answer.ErrNotConfigured))

			_, err = svc.Answer(ctx, "question", chunks)
			Expect(err).To(MatchError(answer.ErrNotConfigured))
		})
	})
})
