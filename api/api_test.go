package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papershelf/papershelf/pkg/answer"
	"github.com/papershelf/papershelf/pkg/extract"
	"github.com/papershelf/papershelf/pkg/extract/plaintext"
	"github.com/papershelf/papershelf/pkg/logger"
	"github.com/papershelf/papershelf/pkg/store"
	testutils "github.com/papershelf/papershelf/pkg/utils/test"
	"github.com/papershelf/papershelf/pkg/vector/flat"
)

const paperText = "alpha beta gamma delta epsilon zeta eta theta iota kappa\n\n" +
	"lambda mu nu xi omicron pi rho sigma tau upsilon"

var _ = Describe("Server", func() {
	var (
		server   *Server
		st       *store.Store
		embedder *testutils.MockEmbedder
		gen      *testutils.MockGenerator
	)

	newServer := func() *Server {
		var g answer.Generator
		if gen != nil {
			g = gen
		}
		return NewServer(
			Config{
				ListenAddr: ":0",
				UploadDir:  GinkgoT().TempDir(),
			},
			st,
			map[string]extract.Extractor{
				".txt": plaintext.NewExtractor(plaintext.Config{}),
			},
			answer.NewService(g, nil),
			logger.Nop(),
		)
	}

	uploadRequest := func(filename, content string) *http.Request {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)

		part, err := writer.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req, err := http.NewRequest(http.MethodPost, "/upload", &buf)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	uploadDoc := func(filename, content string) string {
		resp, err := server.app.Test(uploadRequest(filename, content))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		var body UploadResponse
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body.DocID).NotTo(BeEmpty())
		return body.DocID
	}

	get := func(path string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		Expect(err).NotTo(HaveOccurred())

		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder(2)
		gen = testutils.NewMockGenerator("generated text")

		index, err := flat.NewIndex(flat.Config{Dimensions: 2})
		Expect(err).NotTo(HaveOccurred())

		st, err = store.New(store.Config{}, embedder, index, nil)
		Expect(err).NotTo(HaveOccurred())

		server = newServer()
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			resp := get("/ping")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("pong"))
		})
	})

	Describe("POST /upload", func() {
		It("indexes a text file and returns a document id", func() {
			docID := uploadDoc("paper.txt", paperText)
			Expect(st.Exists(docID)).To(BeTrue())
		})

		It("sanitizes the stored filename", func() {
			docID := uploadDoc("my paper (v2).txt", paperText)

			filename, ok := st.Filename(docID)
			Expect(ok).To(BeTrue())
			Expect(filename).To(Equal("mypaperv2.txt"))
		})

		It("rejects unsupported file types", func() {
			resp, err := server.app.Test(uploadRequest("image.png", "not text"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("rejects requests without a file", func() {
			req, err := http.NewRequest(http.MethodPost, "/upload", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("does not register a document when extraction fails", func() {
			resp, err := server.app.Test(uploadRequest("short.txt", "too short"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})
	})

	Describe("GET /document/:id", func() {
		It("serves the uploaded file", func() {
			docID := uploadDoc("paper.txt", paperText)

			resp := get("/document/" + docID)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(paperText))
		})

		It("returns 404 for an unknown document", func() {
			resp := get("/document/nope")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})

	Describe("GET /query/:id", func() {
		var docID string

		BeforeEach(func() {
			docID = uploadDoc("paper.txt", paperText)
		})

		It("answers a question about the document", func() {
			gen.Responses = []string{"results", "the final answer"}

			resp := get("/query/" + docID + "?question=what+is+this")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["answer"]).To(Equal("the final answer"))
		})

		It("returns 400 without a question", func() {
			resp := get("/query/" + docID)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 400 for a non-positive k", func() {
			resp := get("/query/" + docID + "?question=hi&k=0")
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 404 for an unknown document", func() {
			resp := get("/query/nope?question=hi")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("returns chunks when no generator is configured", func() {
			gen = nil
			server = newServer()
			docID = uploadDoc("paper2.txt", paperText)

			resp := get("/query/" + docID + "?question=what+is+this")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body ChunksResponse
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Chunks).NotTo(BeEmpty())
		})
	})

	Describe("task endpoints", func() {
		var docID string

		BeforeEach(func() {
			docID = uploadDoc("paper.txt", paperText)
		})

		It("generates a summary", func() {
			resp := get("/summary/" + docID)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["summary"]).To(Equal("generated text"))
		})

		It("uses the results_discussion field for results", func() {
			resp := get("/results/" + docID)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body).To(HaveKey("results_discussion"))
		})

		It("returns 404 for an unknown document", func() {
			for _, path := range []string{"/summary/x", "/abstract/x", "/approach/x", "/keywords/x", "/results/x"} {
				resp := get(path)
				Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
			}
		})

		It("returns 503 when no generator is configured", func() {
			gen = nil
			server = newServer()
			docID = uploadDoc("paper3.txt", paperText)

			resp := get("/summary/" + docID)
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})

		It("surfaces generation failures", func() {
			gen.Fail = true

			resp := get("/abstract/" + docID)
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})
	})
})
