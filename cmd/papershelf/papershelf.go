// Package papershelfcmder
package papershelfcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papershelf/papershelf/cmd/papershelf/config"
	ingestcmder "github.com/papershelf/papershelf/cmd/papershelf/ingest"
	searchcmder "github.com/papershelf/papershelf/cmd/papershelf/search"
	servecmder "github.com/papershelf/papershelf/cmd/papershelf/serve"
	versioncmder "github.com/papershelf/papershelf/cmd/version"
)

const papershelfLongDesc string = `Papershelf is a self-hosted store for searching and questioning your papers.

Run the service using:
  papershelf serve         Run the API server

Work with documents using:
  papershelf ingest        Upload a document to a running server
  papershelf search        Ask a question about an ingested document
  papershelf config        Manage persistent configuration`

const papershelfShortDesc string = "Papershelf - document embedding and retrieval store"

func NewPapershelfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "papershelf",
		Short: papershelfShortDesc,
		Long:  papershelfLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .papershelf/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
