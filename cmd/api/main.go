package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/persona-chat/backend/internal/config"
	"github.com/zhouzirui/persona-chat/backend/internal/handler"
	"github.com/zhouzirui/persona-chat/backend/internal/logging"
	"github.com/zhouzirui/persona-chat/backend/internal/model/persona"
	"github.com/zhouzirui/persona-chat/backend/internal/service/ai"
	"github.com/zhouzirui/persona-chat/backend/internal/service/chat"
)

const shutdownTimeout = 10 * time.Second

// rootOptions holds flag values that override the environment.
type rootOptions struct {
	addr     string
	personas string
	verbose  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "persona-chat",
		Short:        "PersonaAI chat backend",
		Long:         "Serves the persona catalog and chat sessions, relaying each message to the configured chat-completion API.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.addr, "addr", "", "listen address, overrides PORT")
	cmd.PersistentFlags().StringVar(&opts.personas, "personas", "", "persona catalog YAML file, overrides PERSONAS_FILE")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newPersonasCmd(opts))
	return cmd
}

func newPersonasCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "Print the persona catalog the server would load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			store, err := loadPersonas(cfg.Personas)
			if err != nil {
				return err
			}
			return printPersonas(cmd, store.List())
		},
	}
}

// loadConfig reads .env and the environment, then applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.addr != "" {
		addr, err := config.NormalizeAddr(opts.addr)
		if err != nil {
			return nil, err
		}
		cfg.Server.Addr = addr
	}
	if opts.personas != "" {
		cfg.Personas.File = opts.personas
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// loadPersonas builds the catalog from the configured file, or the built-in set.
func loadPersonas(cfg config.PersonaConfig) (*persona.MemoryStore, error) {
	if cfg.File == "" {
		return persona.NewMemoryStore(persona.Seed()), nil
	}
	items, err := persona.LoadFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load personas: %w", err)
	}
	return persona.NewMemoryStore(items), nil
}

func printPersonas(cmd *cobra.Command, personas []persona.Persona) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTITLE")
	for _, p := range personas {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Title)
	}
	return w.Flush()
}

func serve(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	personaStore, err := loadPersonas(cfg.Personas)
	if err != nil {
		return err
	}
	logger.Info("persona catalog loaded",
		zap.Int("active", len(personaStore.List())),
		zap.String("source", catalogSource(cfg.Personas)),
	)

	relay, err := ai.NewService(ctx, cfg.Relay, logger)
	if err != nil {
		return err
	}
	if relay.Enabled() {
		logger.Info("chat relay configured", zap.String("provider", cfg.Relay.Provider))
	} else {
		logger.Warn("chat relay credentials missing, replies will use the fallback text",
			zap.String("provider", cfg.Relay.Provider))
	}

	router := handler.NewRouter(personaStore, chat.NewService(), relay, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("PersonaAI backend listening", zap.String("addr", cfg.Server.Addr))
	if err := runServer(ctx, srv, logger); err != nil {
		logger.Error("server error", zap.Error(err))
		return err
	}
	return nil
}

func catalogSource(cfg config.PersonaConfig) string {
	if cfg.File == "" {
		return "builtin"
	}
	return cfg.File
}

// runServer serves until ctx is done or the listener fails, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
