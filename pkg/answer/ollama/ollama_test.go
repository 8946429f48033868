package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/answer/ollama"
)

var _ = Describe("Generator", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		received map[string]any
	)

	BeforeEach(func() {
		ctx = context.Background()
		received = nil

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/generate"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

			json.NewEncoder(w).Encode(map[string]any{
				"response": "the answer",
			})
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("requires a target url", func() {
		_, err := ollama.NewGenerator(ollama.GeneratorConfig{})
		Expect(err).To(HaveOccurred())
	})

	It("sends the prompt and returns the completion", func() {
		g, err := ollama.NewGenerator(ollama.GeneratorConfig{
			TargetURL: server.URL,
			Model:     "test-model",
		})
		Expect(err).NotTo(HaveOccurred())
		defer g.Close()

		out, err := g.Generate(ctx, "what is the method?")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("the answer"))

		Expect(received["model"]).To(Equal("test-model"))
		Expect(received["prompt"]).To(Equal("what is the method?"))
		Expect(received["stream"]).To(Equal(false))
	})

	It("defaults the model", func() {
		g, err := ollama.NewGenerator(ollama.GeneratorConfig{TargetURL: server.URL})
		Expect(err).NotTo(HaveOccurred())
		defer g.Close()

		_, err = g.Generate(ctx, "hi")
		Expect(err).NotTo(HaveOccurred())
		Expect(received["model"]).To(Equal(ollama.DefaultModel))
	})

	It("surfaces non-200 responses as errors", func() {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer failing.Close()

		g, err := ollama.NewGenerator(ollama.GeneratorConfig{TargetURL: failing.URL})
		Expect(err).NotTo(HaveOccurred())
		defer g.Close()

		_, err = g.Generate(ctx, "hi")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("404"))
	})
})
