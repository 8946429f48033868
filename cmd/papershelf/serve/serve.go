// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papershelf/papershelf/api"
	"github.com/papershelf/papershelf/pkg/answer"
	answerutils "github.com/papershelf/papershelf/pkg/answer/utils"
	"github.com/papershelf/papershelf/pkg/config"
	"github.com/papershelf/papershelf/pkg/dotdir"
	embeddingutils "github.com/papershelf/papershelf/pkg/embeddings/utils"
	"github.com/papershelf/papershelf/pkg/extract"
	"github.com/papershelf/papershelf/pkg/extract/pdf"
	"github.com/papershelf/papershelf/pkg/extract/plaintext"
	"github.com/papershelf/papershelf/pkg/logger"
	"github.com/papershelf/papershelf/pkg/store"
	vectorutils "github.com/papershelf/papershelf/pkg/vector/utils"
)

type serveCommander struct {
	listen    string
	configDir string
	debug     bool
	logger    *zap.Logger
}

const serveLongDesc string = `Run the Papershelf API server.

The server accepts document uploads, indexes their chunks in the vector
store, and answers retrieval and generation requests. Durable state (the
trained embedding model, the vector index, the document registry, and
uploaded files) lives under the .papershelf/ directory.`

const serveShortDesc string = "Run the Papershelf API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for API server to listen on (default from config)")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.New(c.debug)
	defer c.logger.Sync()

	cfg, err := config.Load(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	listen := c.listen
	if listen == "" {
		listen = cfg.API.Listen
	}

	ddm := dotdir.NewManager()

	dataDir := cfg.Storage.DataDir
	if dataDir == "" {
		if dataDir, err = ddm.DataDir(c.configDir); err != nil {
			return fmt.Errorf("resolving data dir: %w", err)
		}
	}

	uploadsDir := cfg.Storage.UploadsDir
	if uploadsDir == "" {
		if uploadsDir, err = ddm.UploadsDir(c.configDir); err != nil {
			return fmt.Errorf("resolving uploads dir: %w", err)
		}
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		VectorSize:   cfg.Embedding.VectorSize,
		MinCount:     cfg.Embedding.MinCount,
		Epochs:       cfg.Embedding.Epochs,
		ModelPath:    filepath.Join(dataDir, "doc2vec.gob"),
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	index, err := vectorutils.NewIndex(&vectorutils.NewIndexOpts{
		ProviderType: cfg.VectorStore.Provider,
		DBPath:       filepath.Join(dataDir, "vectors.db"),
		Dimensions:   embedder.Dimensions(),
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector index: %w", err)
	}

	st, err := store.New(store.Config{DataDir: dataDir}, embedder, index, c.logger)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer st.Close()

	generator, err := answerutils.NewGenerator(&answerutils.NewGeneratorOpts{
		ProviderType: cfg.Answer.Provider,
		TargetURL:    cfg.Answer.Target,
		Model:        cfg.Answer.Model,
	})
	if err != nil {
		return fmt.Errorf("creating answer generator: %w", err)
	}
	if generator == nil {
		c.logger.Info("no answer provider configured, serving chunks only")
	}

	extractors := map[string]extract.Extractor{
		".pdf": pdf.NewExtractor(pdf.Config{
			MinWords: cfg.Extract.MinWords,
			Logger:   c.logger,
		}),
		".txt": plaintext.NewExtractor(plaintext.Config{
			MinWords: cfg.Extract.MinWords,
		}),
		".md": plaintext.NewExtractor(plaintext.Config{
			MinWords: cfg.Extract.MinWords,
		}),
	}

	server := api.NewServer(
		api.Config{
			ListenAddr:   listen,
			UploadDir:    uploadsDir,
			AllowOrigins: cfg.API.AllowOrigins,
		},
		st,
		extractors,
		answer.NewService(generator, c.logger),
		c.logger,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("api server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}
