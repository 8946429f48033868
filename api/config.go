// Package api provides the HTTP API server for uploading documents and
// querying them.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// UploadDir is where uploaded files are kept for later retrieval.
	UploadDir string

	// AllowOrigins is the CORS allow list, comma separated.
	AllowOrigins string
}
