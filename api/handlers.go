package api

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON error body returned by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UploadResponse is returned after a successful document upload.
type UploadResponse struct {
	DocID    string `json:"doc_id"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleUpload accepts a multipart file, extracts its chunks, and
// registers it in the store under a fresh document id.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "file field is required"})
	}

	filename := sanitizeFilename(fileHeader.Filename)
	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "filename is empty after sanitizing"})
	}

	ext := strings.ToLower(filepath.Ext(filename))
	extractor, ok := s.extractors[ext]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unsupported file type: " + ext})
	}

	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to create upload directory"})
	}

	path := filepath.Join(s.config.UploadDir, filename)
	if err := c.SaveFile(fileHeader, path); err != nil {
		s.logger.Error("saving upload failed", zap.String("path", path), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save file"})
	}

	chunks, err := extractor.Extract(path)
	if err != nil {
		os.Remove(path)
		s.logger.Error("extraction failed", zap.String("path", path), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to process file: " + err.Error()})
	}

	docID := uuid.NewString()
	if err := s.store.AddDocument(c.Context(), docID, chunks, filename); err != nil {
		os.Remove(path)
		s.logger.Error("adding document failed", zap.String("doc_id", docID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to index file: " + err.Error()})
	}

	return c.JSON(UploadResponse{
		DocID:    docID,
		Message:  "document processed successfully",
		Filename: filename,
	})
}

// handleDocument serves the originally uploaded file for a document id.
func (s *Server) handleDocument(c *fiber.Ctx) error {
	docID := c.Params("id")

	filename, ok := s.store.Filename(docID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "document not found"})
	}

	path := filepath.Join(s.config.UploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "file not found"})
	}

	return c.SendFile(path)
}

// sanitizeFilename strips everything except letters, digits, '-', '_',
// and '.' so the stored name is safe to join onto the upload directory.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}
