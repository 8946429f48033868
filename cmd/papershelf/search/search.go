// Package searchcmder provides the search command for questioning documents.
package searchcmder

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/papershelf/papershelf/pkg/cliui"
	"github.com/papershelf/papershelf/pkg/config"
	"github.com/papershelf/papershelf/pkg/store"
)

type searchCommander struct {
	docID    string
	question string
	topK     int

	apiTarget string
}

const searchLongDesc string = `Ask a question about an ingested document via the Papershelf API.

The document's most relevant chunks are retrieved and, when the server
has an answer provider configured, a generated answer is returned.
Without one, the matching chunks are printed instead.

Example:
  papershelf search <doc-id> "what dataset was used?"
  papershelf search <doc-id> "how are results evaluated?" --top 15`

const searchShortDesc string = "Ask a question about a document"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <doc-id> <question>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(2),
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
			cmder.docID = args[0]
			cmder.question = args[1]
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "t", "http://localhost:8000", "Papershelf API server URL")
	cmd.Flags().IntVar(&cmder.topK, "top", 0, "Number of chunks to retrieve (default server-side)")

	return cmd
}

func (c *searchCommander) run() error {
	endpoint := fmt.Sprintf("%s/query/%s?question=%s",
		c.apiTarget, url.PathEscape(c.docID), url.QueryEscape(c.question))
	if c.topK > 0 {
		endpoint += "&k=" + strconv.Itoa(c.topK)
	}

	client := &http.Client{Timeout: 10 * time.Minute}

	resp, err := client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("calling API server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Answer string        `json:"answer"`
		Chunks []store.Chunk `json:"chunks"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if result.Answer != "" {
		rendered, err := cliui.RenderMarkdown(result.Answer)
		if err != nil {
			fmt.Println(result.Answer)
			return nil
		}
		fmt.Print(rendered)
		return nil
	}

	// Chunk-only response from a server without an answer provider.
	for i, chunk := range result.Chunks {
		fmt.Printf("%s %s\n%s\n\n",
			cliui.KeyStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.DimStyle.Render(fmt.Sprintf("[Page %d]", chunk.Page)),
			cliui.ValueStyle.Render(chunk.Text),
		)
	}
	if len(result.Chunks) == 0 {
		fmt.Fprintln(os.Stderr, cliui.DimStyle.Render("No matching content."))
	}

	return nil
}
