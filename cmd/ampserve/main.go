package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/ampserve/internal/config"
	"github.com/mtlprog/ampserve/internal/database"
	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/logger"
	"github.com/mtlprog/ampserve/internal/middleware"
	"github.com/mtlprog/ampserve/internal/repository"
)

func main() {
	app := &cli.App{
		Name:  "ampserve",
		Usage: "AMP page server with brand and site templates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   config.DefaultLogFormat,
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL, needed for postgres: locations",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Value:   config.DefaultMode,
				Usage:   "Page mode (brand, site, auto)",
				EnvVars: []string{"MODE"},
			},
			&cli.StringFlag{
				Name:    "brand-key",
				Value:   config.DefaultBrandKey,
				Usage:   "Query parameter carrying the brand",
				EnvVars: []string{"BRAND_KEY"},
			},
			&cli.StringFlag{
				Name:    "template",
				Value:   config.DefaultTemplateLocation,
				Usage:   "Brand template location (http(s)://, file path, postgres:<name>, embedded:)",
				EnvVars: []string{"TEMPLATE_URL"},
			},
			&cli.StringFlag{
				Name:    "site-template",
				Value:   config.DefaultSiteTemplateLocation,
				Usage:   "Site template location",
				EnvVars: []string{"SITE_TEMPLATE_URL"},
			},
			&cli.StringFlag{
				Name:    "sites",
				Value:   config.DefaultSitesLocation,
				Usage:   "Site list location",
				EnvVars: []string{"SITES_URL"},
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   config.DefaultFetchTimeout,
				Usage:   "Timeout for each upstream fetch",
				EnvVars: []string{"FETCH_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "canonical-base",
				Value:   config.DefaultCanonicalBase,
				Usage:   "Base URL for brand page canonical links",
				EnvVars: []string{"CANONICAL_BASE"},
			},
			&cli.StringFlag{
				Name:    "site-origin",
				Value:   config.DefaultSiteOrigin,
				Usage:   "Origin for site page canonical links",
				EnvVars: []string{"SITE_ORIGIN"},
			},
		},
		Before: func(c *cli.Context) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			logger.Setup(logger.ParseLevel(c.String("log-level")), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
			},
			{
				Name:  "render",
				Usage: "Render one page to stdout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "brand",
						Usage: "Brand to render the brand template with",
					},
					&cli.StringFlag{
						Name:  "site",
						Usage: "Site path segment to render; empty picks a random site",
					},
				},
				Action: runRender,
			},
			{
				Name:  "resources",
				Usage: "Manage text resources stored in Postgres",
				Subcommands: []*cli.Command{
					{
						Name:      "put",
						Usage:     "Store a file (or - for stdin) under a name",
						ArgsUsage: "<name> <file>",
						Action:    runResourcesPut,
					},
					{
						Name:      "get",
						Usage:     "Print a stored resource",
						ArgsUsage: "<name>",
						Action:    runResourcesGet,
					},
					{
						Name:   "list",
						Usage:  "List stored resource names",
						Action: runResourcesList,
					},
				},
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func configFromContext(c *cli.Context) (config.Config, error) {
	cfg := config.Config{
		Port:                 c.String("port"),
		Mode:                 domain.Mode(strings.ToLower(c.String("mode"))),
		BrandKey:             c.String("brand-key"),
		TemplateLocation:     c.String("template"),
		SiteTemplateLocation: c.String("site-template"),
		SitesLocation:        c.String("sites"),
		FetchTimeout:         c.Duration("fetch-timeout"),
		CanonicalBase:        c.String("canonical-base"),
		SiteOrigin:           c.String("site-origin"),
		DatabaseURL:          c.String("database-url"),
	}
	if cfg.Port == "" {
		cfg.Port = config.DefaultPort
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openDatabase connects and migrates when a database URL is configured.
// It returns a nil DB otherwise.
func openDatabase(ctx context.Context, databaseURL string) (*database.DB, error) {
	if databaseURL == "" {
		return nil, nil
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	a, err := newApp(cfg, db, slog.Default())
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	a.handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Chain(mux, middleware.RequestID, middleware.Logger, middleware.Recover),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server",
			"server_addr", "http://localhost:"+cfg.Port,
			"mode", cfg.Mode,
			"template", cfg.TemplateLocation,
			"sites", cfg.SitesLocation,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runRender(c *cli.Context) error {
	ctx := c.Context

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	a, err := newApp(cfg, db, slog.Default())
	if err != nil {
		return err
	}

	var page domain.RenderedPage
	if c.IsSet("site") || (cfg.Mode == domain.ModeSite && !c.IsSet("brand")) {
		page, err = a.site.Render(ctx, c.String("site"))
	} else {
		page, err = a.brand.Render(ctx, c.String("brand"))
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	_, err = io.WriteString(c.App.Writer, page.HTML)
	return err
}

func openResources(c *cli.Context) (*repository.TextResourceRepository, func(), error) {
	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return nil, nil, errors.New("--database-url is required for resource commands")
	}

	db, err := openDatabase(c.Context, databaseURL)
	if err != nil {
		return nil, nil, err
	}

	return repository.NewTextResourceRepository(db.Pool()), db.Close, nil
}

func runResourcesPut(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("usage: resources put <name> <file>")
	}
	name, path := c.Args().Get(0), c.Args().Get(1)

	var (
		body []byte
		err  error
	)
	if path == "-" {
		body, err = io.ReadAll(c.App.Reader)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	repo, closeDB, err := openResources(c)
	if err != nil {
		return err
	}
	defer closeDB()

	res, err := repo.Upsert(c.Context, name, string(body))
	if err != nil {
		return err
	}

	slog.Info("resource stored", "name", res.Name, "bytes", len(res.Body), "updated_at", res.UpdatedAt)
	return nil
}

func runResourcesGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: resources get <name>")
	}

	repo, closeDB, err := openResources(c)
	if err != nil {
		return err
	}
	defer closeDB()

	res, err := repo.GetByName(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	_, err = io.WriteString(c.App.Writer, res.Body)
	return err
}

func runResourcesList(c *cli.Context) error {
	repo, closeDB, err := openResources(c)
	if err != nil {
		return err
	}
	defer closeDB()

	names, err := repo.ListNames(c.Context)
	if err != nil {
		return err
	}

	for _, name := range names {
		if _, err := fmt.Fprintln(c.App.Writer, name); err != nil {
			return err
		}
	}
	return nil
}
