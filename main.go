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

	"github.com/camden-git/campaidbackend/config"
	"github.com/camden-git/campaidbackend/database"
	"github.com/camden-git/campaidbackend/handlers"
	"github.com/camden-git/campaidbackend/logging"
	"github.com/camden-git/campaidbackend/repository"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every subcommand opens before doing its work.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *database.DB
	gormDB *gorm.DB
}

func bootstrap() (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	db, err := database.InitDB(cfg.DatabaseDriver, cfg.DataSource())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := database.InitGormDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		db.Close()
		return nil, err
	}
	if err := handlers.SyncAdminRole(repository.NewGormRoleRepository(gormDB)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to sync admin role: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: db, gormDB: gormDB}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("error closing database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	router := handlers.NewRouter(a.db, a.gormDB, handlers.RouterOptions{
		JWTSecret:          []byte(a.cfg.JWTSecret),
		JWTExpiration:      a.cfg.JWTExpiration,
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
		RequestTimeout:     a.cfg.RequestTimeout,
		Logger:             a.logger,
	})

	server := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: a.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", server.Addr), zap.String("driver", a.cfg.DatabaseDriver))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			a.logger.Info("schema is up to date")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			user, err := handlers.CreateFirstAdmin(a.gormDB, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created administrator %q (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "administrator username")
	cmd.Flags().StringVar(&password, "password", "", "administrator password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func main() {
	serve := serveCmd()
	rootCmd := &cobra.Command{
		Use:   "campaidbackend",
		Short: "Administration API for refugee camps, families and aid distribution",
		RunE:  serve.RunE,
	}

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
