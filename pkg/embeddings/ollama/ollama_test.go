package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/embeddings"
	"github.com/papershelf/papershelf/pkg/embeddings/ollama"
)

var _ = Describe("Embedder", func() {
	var (
		server *httptest.Server
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	newServer := func(handler http.HandlerFunc) *ollama.Embedder {
		server = httptest.NewServer(handler)
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL:    server.URL,
			Dimensions: 3,
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	It("embeds a batch and preserves input order", func() {
		e := newServer(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/embed"))

			var req struct {
				Model string   `json:"model"`
				Input []string `json:"input"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			Expect(req.Input).To(Equal([]string{"first", "second"}))

			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{1, 0, 0}, {0, 1, 0}},
			})
		})

		vecs, err := e.EmbedBatch(ctx, []string{"first", "second"})
		Expect(err).NotTo(HaveOccurred())
		Expect(vecs).To(Equal([][]float32{{1, 0, 0}, {0, 1, 0}}))
	})

	It("embeds a single text", func() {
		e := newServer(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.5, 0.5, 0}},
			})
		})

		vec, err := e.Embed(ctx, "hello")
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(Equal([]float32{0.5, 0.5, 0}))
	})

	It("wraps upstream failures in ErrEmbedding", func() {
		e := newServer(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := e.Embed(ctx, "hello")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("rejects a response with the wrong embedding count", func() {
		e := newServer(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{1, 2, 3}},
			})
		})

		_, err := e.EmbedBatch(ctx, []string{"a", "b"})
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("reports configured dimensions", func() {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{Dimensions: 42})
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Dimensions()).To(Equal(42))
	})
})
