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
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"multistop/cmd"
	httpadapter "multistop/internal/adapters/in/http"
	"multistop/internal/adapters/out/postgres"
	"multistop/internal/core/domain/model/kernel"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "multistop",
		Short:         "Multi-stop order editing and dispatch service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand(), newSweepCommand(), newTokenCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			configs, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			if err = configs.ValidateServe(); err != nil {
				return err
			}
			logger := newLogger(configs)

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, closeAll, err := buildApp(ctx, configs, logger)
			if err != nil {
				return err
			}
			defer closeAll()

			handlers, err := app.CreateHTTPHandlers()
			if err != nil {
				return err
			}
			server, err := httpadapter.NewServer(handlers, configs.JWTSecret, logger)
			if err != nil {
				return err
			}
			jobManager, err := app.CreateJobManager()
			if err != nil {
				return err
			}

			return run(ctx, server, jobManager, configs.HTTPPort, logger)
		},
	}
}

type jobRunner interface {
	StartAll() error
	StopAll()
}

func run(ctx context.Context, server *httpadapter.Server, jobManager jobRunner, port string, logger *slog.Logger) error {
	e := server.Echo()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "port", port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(c *cobra.Command, _ []string) error {
			configs, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			if err = configs.ValidateDatabase(); err != nil {
				return err
			}
			db, err := openDatabase(configs)
			if err != nil {
				return err
			}
			if err = postgres.Migrate(c.Context(), db); err != nil {
				return err
			}
			newLogger(configs).Info("Schema migrated")
			return nil
		},
	}
}

func newSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one offer expiry sweep and exit",
		RunE: func(c *cobra.Command, _ []string) error {
			configs, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			if err = configs.ValidateDatabase(); err != nil {
				return err
			}
			logger := newLogger(configs)

			app, closeAll, err := buildApp(c.Context(), configs, logger)
			if err != nil {
				return err
			}
			defer closeAll()

			job, err := app.CreateOfferExpiryJob()
			if err != nil {
				return err
			}
			report, err := job.Run(c.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "expired=%d offered=%d failed=%d\n", report.Expired, report.Offered, report.Failed)
			return nil
		},
	}
}

func newTokenCommand() *cobra.Command {
	var (
		role      string
		subject   string
		companyID string
		ttl       time.Duration
	)
	command := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token for local use",
		RunE: func(c *cobra.Command, _ []string) error {
			configs, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			if configs.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}

			p := httpadapter.Principal{ID: kernel.NewUUID(), Role: httpadapter.Role(role)}
			switch p.Role {
			case httpadapter.RoleClient, httpadapter.RoleDriver, httpadapter.RoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", role)
			}
			if subject != "" {
				if p.ID, err = kernel.UUIDFromString(subject); err != nil {
					return err
				}
			}
			if companyID != "" {
				id, err := kernel.UUIDFromString(companyID)
				if err != nil {
					return err
				}
				p.CompanyID = &id
			}

			now := time.Now()
			tok, err := httpadapter.IssueToken(p, configs.JWTSecret, jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), tok)
			return nil
		},
	}
	command.Flags().StringVar(&role, "role", string(httpadapter.RoleClient), "client, driver or admin")
	command.Flags().StringVar(&subject, "subject", "", "caller id (random when empty)")
	command.Flags().StringVar(&companyID, "company", "", "company id of a driver")
	command.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return command
}

func buildApp(ctx context.Context, configs cmd.Config, logger *slog.Logger) (*cmd.CompositionRoot, func(), error) {
	db, err := openDatabase(configs)
	if err != nil {
		return nil, nil, err
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})
	closeAll := func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err = redisClient.Ping(ctx).Err(); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	app, err := cmd.NewCompositionRoot(configs, db, redisClient, logger)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return app, closeAll, nil
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(pgdriver.Open(configs.PostgresDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func newLogger(configs cmd.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
}
