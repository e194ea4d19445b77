package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ironsheep/image-edit-mcp/internal/config"
	"github.com/ironsheep/image-edit-mcp/internal/httpapi"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/logger"
	"github.com/ironsheep/image-edit-mcp/internal/server"
	"github.com/ironsheep/image-edit-mcp/internal/storage"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-edit-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-edit-mcp - MCP server for raster editing and edge detection")
			fmt.Println()
			fmt.Println("Usage: image-edit-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_EDIT_LOG_LEVEL=debug       debug, info, warn or error")
			fmt.Println("  IMAGE_EDIT_LOG_FORMAT=json       console or json")
			fmt.Println("  IMAGE_EDIT_HTTP_ADDR=:8080       Serve HTTP instead of stdio MCP")
			fmt.Println("  IMAGE_EDIT_FILE_ROOT=/srv/images Directory HTTP clients may read and write;")
			fmt.Println("                                   unset, HTTP accepts only remote locations")
			fmt.Println("  IMAGE_EDIT_FETCH_TIMEOUT=15s     Timeout for http(s) image locations")
			fmt.Println("  IMAGE_EDIT_MAX_PIXELS=67108864   Largest image accepted")
			fmt.Println("  AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY")
			fmt.Println("                                   Enable azblob://container/blob locations")
			fmt.Println()
			fmt.Println("Without IMAGE_EDIT_HTTP_ADDR the server communicates via MCP protocol")
			fmt.Println("over stdin/stdout. Configure it in your MCP client.")
			return
		}
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logging goes to stderr (stdout is for MCP protocol)
	log := logger.Stderr(cfg.LogLevel, cfg.LogFormat)
	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("image-edit-mcp starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	resolver := storage.NewResolver(storage.NewHTTPSource(cfg.FetchTimeout))
	if cfg.BlobEnabled() {
		blob, err := storage.NewBlobSource(cfg.AzureAccount, cfg.AzureKey)
		if err != nil {
			return err
		}
		resolver.Blob = blob
	}

	cache := imaging.NewCache(resolver, cfg.MaxPixels)
	srv := server.New(cache, logger.Component(log, "mcp"))

	if cfg.HTTPAddr == "" {
		return srv.Run(ctx, os.Stdin, os.Stdout)
	}
	return serveHTTP(ctx, cfg, srv, logger.Component(log, "http"))
}

func serveHTTP(ctx context.Context, cfg *config.Config, srv *server.Server, log zerolog.Logger) error {
	if err := srv.RestrictFiles(cfg.FileRoot); err != nil {
		return err
	}
	if cfg.FileRoot == "" {
		log.Warn().Msg("IMAGE_EDIT_FILE_ROOT not set, local files are disabled over HTTP")
	} else {
		log.Info().Str("root", cfg.FileRoot).Msg("local files confined to root")
	}

	gin.SetMode(gin.ReleaseMode)
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewHandler(srv, log, httpapi.Options{RequestTimeout: 4 * cfg.FetchTimeout}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	}
}
