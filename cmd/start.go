package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtside/core/loader"
	"courtside/core/logger"
	"courtside/core/middleware/rayid"
	"courtside/core/pipeline"
	"courtside/core/scheduler"
	"courtside/feature/admin"
	"courtside/feature/integrity"
	"courtside/feature/schedule"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "courtside/docs/swagger"
)

// @title Courtside API
// @version 1.0
// @description Reconciled basketball schedule with TV broadcasters.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the schedule server and the daily update",
	Long:  `Starts the HTTP server, schedules the daily update run and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// 1. Configuration, database and pipeline
		d, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		logg := d.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Scheduler
		sched, err := scheduler.New(d.cfg.Pipeline.Cron, d.cfg.Pipeline.Timezone, d.pipeline, logg)
		if err != nil {
			return err
		}

		// 3. Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           time.Duration(d.cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		// 4. Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(schedule.NewFeature(d.db, logg, d.loc))
		mgr.Register(admin.NewFeature(d.pipeline, d.settings, logg, d.cfg.Server.ApiKey))
		mgr.Register(integrity.NewFeature(d.db, d.store, d.cfg.Storage.Bucket, logg, d.cfg.Server.ApiKey))

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(cors.New(cors.Config{
			AllowOrigins: d.cfg.Server.AllowOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, X-API-Key",
		}))

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(d.metrics.Handler()))
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			return err
		}
		if !d.cfg.Server.AdminEnabled() {
			logg.Warn("SERVER_API_KEY is not set, admin routes are disabled")
		}

		// 6. Schedule and optional first run
		sched.Start()
		if d.cfg.Pipeline.RunOnStart {
			go func() {
				report := d.pipeline.Run(context.Background(), pipeline.TriggerSchedule)
				logg.Info("Startup run completed", zap.String("run_id", report.RunID), zap.Int("total", report.Total))
			}()
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", d.cfg.Server.Addr()))
			if err := app.Listen(d.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		<-sched.Stop().Done()
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
