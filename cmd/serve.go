package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/showcase-labs/kbsearch/internal/db"
	"github.com/showcase-labs/kbsearch/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the knowledge base chat server",
	Long:  `Starts the HTTP server exposing the chat and search API over the persisted vector index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		embedder, err := createEmbedder(cfg)
		if err != nil {
			return err
		}
		provider, err := createProvider(cfg)
		if err != nil {
			return err
		}
		store, err := openStore(context.Background(), cfg, embedder)
		if err != nil {
			return err
		}

		database, err := db.Open(databasePath(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		svc := buildService(cfg, embedder, provider, store, false)

		srv := server.New(server.Config{
			Port:        cfg.Server.Port,
			AllowAll:    cfg.Server.AllowAll,
			MaxQueryLen: cfg.Server.MaxQueryLen,
		}, svc, database)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "kbsearch server v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", databasePath(cfg))
		fmt.Fprintf(os.Stderr, "  Entries indexed: %d\n", store.Count())

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}
