// Package ingestcmder provides the ingest command for uploading documents.
package ingestcmder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/papershelf/papershelf/pkg/cliui"
	"github.com/papershelf/papershelf/pkg/config"
)

type ingestCommander struct {
	path      string
	apiTarget string
}

const ingestLongDesc string = `Upload a document to a running Papershelf API server.

The server extracts the document's text, indexes it in the vector store,
and returns a document id to use with papershelf search.

Example:
  papershelf ingest paper.pdf
  papershelf ingest notes.txt --api-target http://localhost:8000`

const ingestShortDesc string = "Upload a document for indexing"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			cmder.path = args[0]
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "t", "http://localhost:8000", "Papershelf API server URL")

	return cmd
}

func (c *ingestCommander) run() error {
	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", c.path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(c.path))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading %s: %w", c.path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}

	var result struct {
		DocID    string `json:"doc_id"`
		Filename string `json:"filename"`
	}

	err = cliui.Step(os.Stdout, fmt.Sprintf("Uploading %s", filepath.Base(c.path)), func() error {
		client := &http.Client{Timeout: 10 * time.Minute}

		resp, err := client.Post(c.apiTarget+"/upload", writer.FormDataContentType(), &buf)
		if err != nil {
			return fmt.Errorf("calling API server: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("upload failed (%d): %s", resp.StatusCode, string(body))
		}

		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s  %s\n  %s  %s\n\n",
		cliui.KeyStyle.Render("doc_id"),
		cliui.ValueStyle.Render(result.DocID),
		cliui.KeyStyle.Render("file"),
		cliui.ValueStyle.Render(result.Filename),
	)

	return nil
}
