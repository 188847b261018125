package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/jobs"
	"github.com/nodewee/fulltext/pkg/server"
	"github.com/nodewee/fulltext/pkg/store"

	"github.com/spf13/cobra"
)

var (
	listenAddr string
	dataDir    string
	workers    int
)

// serveCmd runs the upload API with background extraction
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the attachment API and extract fulltext in the background",
	Long: `Serve an HTTP API storing uploaded attachments and extracting their
fulltext with a pool of background workers.

Routes:
  GET  /health
  POST /attachments                 multipart field "file", optional "content_type"
  GET  /attachments/{id}
  GET  /attachments/{id}/fulltext`,
	Run: func(cmd *cobra.Command, args []string) {
		h, err := NewAppHandler()
		exitOnError(err)
		exitOnError(h.Serve())
	},
}

// Serve runs the HTTP server and the job queue until interrupted or until a
// job fails fatally
func (h *AppHandler) Serve() error {
	if listenAddr != "" {
		h.config.ListenAddr = listenAddr
	}
	if dataDir != "" {
		h.config.DataDir = dataDir
	}
	if workers > 0 {
		h.config.Workers = workers
	}
	if err := h.config.Validate(); err != nil {
		return err
	}

	st, err := store.New(h.config.DataDir)
	if err != nil {
		return err
	}
	h.logger.Info("Storing attachments in %s", st.Root)

	job := jobs.NewExtractFulltextJob(st, h.processor, h.logger)
	queue := jobs.NewQueue(job, h.config.Workers, constants.DefaultQueueLength, h.logger)
	srv := server.New(st, queue, h.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return queue.Run(gctx)
	})
	g.Go(func() error {
		defer queue.Close()
		return srv.ListenAndServe(gctx, h.config.ListenAddr)
	})

	err = g.Wait()
	if ctx.Err() != nil {
		h.logger.Info("Shut down")
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "",
		"Listen address (default: "+constants.DefaultListenAddr+")")
	serveCmd.Flags().StringVar(&dataDir, "data-dir", "",
		"Attachment storage directory (default: ./data)")
	serveCmd.Flags().IntVar(&workers, "workers", 0,
		"Number of extraction workers")
}
