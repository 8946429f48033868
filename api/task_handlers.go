package api

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/answer"
	"github.com/papershelf/papershelf/pkg/store"
)

// ChunksResponse is the degraded response returned when no generator
// backend is configured: the caller gets the retrieved chunks instead
// of generated prose.
type ChunksResponse struct {
	Chunks []store.Chunk `json:"chunks"`
}

// handleQuery answers a free-form question about a document.
// Query parameters:
//   - question (required): the user's question
//   - k (optional, default 10): number of chunks to retrieve
func (s *Server) handleQuery(c *fiber.Ctx) error {
	docID := c.Params("id")
	if !s.store.Exists(docID) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "document not found"})
	}

	question := c.Query("question")
	if question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "question parameter is required"})
	}

	k := answer.QuestionK
	if kStr := c.Query("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "k must be a positive integer"})
		}
		k = parsed
	}

	chunks, err := s.store.Search(c.Context(), question, docID, k)
	if err != nil {
		s.logger.Error("query search failed", zap.String("doc_id", docID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	if len(chunks) == 0 {
		// Broaden to the document's leading chunks before giving up.
		chunks, err = s.store.Search(c.Context(), "", docID, answer.QuestionFallbackK)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
		}
		if len(chunks) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "could not find relevant content for this question"})
		}
	}

	if !s.answers.Configured() {
		return c.JSON(ChunksResponse{Chunks: chunks})
	}

	out, err := s.answers.Answer(c.Context(), question, chunks)
	if err != nil {
		s.logger.Error("answer generation failed", zap.String("doc_id", docID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(fiber.Map{"answer": out})
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	return s.handleTask(c, answer.SummaryQuery, answer.SummaryK, "summary", s.answers.Summarize)
}

func (s *Server) handleAbstract(c *fiber.Ctx) error {
	return s.handleTask(c, answer.AbstractQuery, answer.AbstractK, "abstract", s.answers.Abstract)
}

func (s *Server) handleApproach(c *fiber.Ctx) error {
	return s.handleTask(c, answer.ApproachQuery, answer.ApproachK, "approach", s.answers.Approach)
}

func (s *Server) handleKeywords(c *fiber.Ctx) error {
	return s.handleTask(c, answer.KeywordsQuery, answer.KeywordsK, "keywords", s.answers.Keywords)
}

func (s *Server) handleResults(c *fiber.Ctx) error {
	return s.handleTask(c, answer.ResultsQuery, answer.ResultsK, "results_discussion", s.answers.ResultsDiscussion)
}

// handleTask runs one retrieval-plus-generation task: fetch the top k
// chunks for the task's query, then hand them to the task's generator
// function. Without a generator backend the task is unavailable.
func (s *Server) handleTask(
	c *fiber.Ctx,
	query string,
	k int,
	field string,
	generate func(context.Context, []store.Chunk) (string, error),
) error {
	if !s.answers.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "answer generation is not configured: set an answer provider",
		})
	}

	docID := c.Params("id")
	if !s.store.Exists(docID) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "document not found"})
	}

	chunks, err := s.store.Search(c.Context(), query, docID, k)
	if err != nil {
		s.logger.Error("task search failed",
			zap.String("doc_id", docID),
			zap.String("task", field),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	if len(chunks) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "could not find relevant content for " + field})
	}

	out, err := generate(c.Context(), chunks)
	if err != nil {
		s.logger.Error("task generation failed",
			zap.String("doc_id", docID),
			zap.String("task", field),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(fiber.Map{field: out})
}
