package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnroute/internal/comments"
	"github.com/ziadkadry99/learnroute/internal/db"
	"github.com/ziadkadry99/learnroute/internal/loader"
	"github.com/ziadkadry99/learnroute/internal/navigator"
	"github.com/ziadkadry99/learnroute/internal/reader"
	"github.com/ziadkadry99/learnroute/internal/server"
	"github.com/ziadkadry99/learnroute/internal/session"
)

var (
	serverPort     int
	serverAllowAll bool
	serverWarm     bool
)

// sweepInterval is how often idle sessions are purged.
const sweepInterval = time.Hour

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the reader web server",
	Long:  `Starts the learnroute reader: the HTML reading UI, its JSON and WebSocket APIs, and the optional comments proxy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		l, err := newLoader(cfg)
		if err != nil {
			return err
		}
		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		// Open database.
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "learnroute.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowAll:       serverAllowAll,
			RequestTimeout: cfg.RequestTimeout(),
		})

		sessions := session.NewManager(database)
		var commentsClient *comments.Client
		if cfg.CommentsURL != "" {
			commentsClient = comments.NewClient(cfg.CommentsURL, cfg.FetchTimeout())
		}
		var contentDir string
		if dir, ok := l.Fetcher().(*loader.DirFetcher); ok {
			contentDir = dir.Root()
		}

		cat := cfg.Catalog()
		rd := reader.New(reader.Config{
			Catalog:      cat,
			Loader:       l,
			Renderer:     renderer,
			Sessions:     sessions,
			DefaultTheme: navigator.Theme(cfg.DefaultTheme),
			Comments:     commentsClient,
			ContentDir:   contentDir,
			AssetPrefix:  cfg.AssetPrefix,
		})
		rd.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if ttl := cfg.SessionTTL(); ttl > 0 {
			go rd.Sweep(ctx, ttl, sweepInterval)
		}
		if serverWarm {
			go func() {
				counts := l.Prefetch(ctx, cat.IDs(), nil)
				fmt.Fprintf(os.Stderr, "Prefetched %d topic(s)\n", len(counts))
			}()
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "learnroute server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Content: %s\n", cfg.ContentRoot)
		fmt.Fprintf(os.Stderr, "  Topics: %d\n", cat.Len())
		if commentsClient != nil {
			fmt.Fprintf(os.Stderr, "  Comments: %s\n", cfg.CommentsURL)
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides the config)")
	serverCmd.Flags().BoolVar(&serverAllowAll, "allow-all-origins", false, "Allow cross-origin requests from any origin")
	serverCmd.Flags().BoolVar(&serverWarm, "warm", false, "Prefetch every topic in the background on startup")
	rootCmd.AddCommand(serverCmd)
}
