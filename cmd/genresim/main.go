package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"genresim/internal/config"
	"genresim/internal/httpapi"
	"genresim/internal/tui"
)

const usage = `Usage: genresim <command> [flags]

Commands:
  serve     Run the HTTP API
  console   Rank genres interactively in the terminal
  ingest    Load a corpus directory (one subdirectory per genre) into the store
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "genresim: %v\n", err)
		os.Exit(1)
	}
}

// options holds the flags shared by every command.
type options struct {
	configPath string
	seed       string
	addr       string
	logFile    string
}

func parseFlags(command string, args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet(command, pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to YAML or JSONC config (default ./genresim.yaml, then ~/.config/genresim/config.yaml)")
	fs.StringVar(&opts.seed, "seed", "", "Corpus directory to ingest before starting")
	if command == "serve" {
		fs.StringVar(&opts.addr, "addr", "", "Listen address, overrides the config")
	}
	if command == "console" {
		fs.StringVar(&opts.logFile, "log-file", "", "Append logs to this file; by default the console logs nothing")
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if command == "ingest" {
		if fs.NArg() != 1 {
			return opts, errors.New("ingest takes exactly one directory")
		}
		opts.seed = fs.Arg(0)
	}
	return opts, nil
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

func run(ctx context.Context, command string, args []string) error {
	switch command {
	case "serve", "console", "ingest":
	case "-h", "--help", "help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}

	opts, err := parseFlags(command, args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	logger, closeLog, err := commandLogger(command, opts, cfg.Log)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog.Close()

	svc, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("could not close store", "error", err)
		}
	}()

	summary := fmt.Sprintf("%d genre(s) loaded", len(svc.Genres()))
	if opts.seed != "" {
		result, err := svc.IngestDirectory(ctx, opts.seed)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		summary = fmt.Sprintf("Ingested %d document(s) into %d genre(s) from %s", result.Documents, len(result.Genres), opts.seed)
	}

	switch command {
	case "serve":
		return serve(ctx, cfg.Server, svc, logger)
	case "console":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("console requires a terminal")
		}
		_, err := tea.NewProgram(tui.New(svc, summary), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	default:
		fmt.Println(summary)
		return nil
	}
}

func serve(ctx context.Context, cfg config.ServerConfig, svc *serviceHandle, logger *slog.Logger) error {
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      httpapi.NewHandler(svc, logger),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", cfg.ShutdownGrace())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
