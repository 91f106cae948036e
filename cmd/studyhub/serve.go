package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"study-hub/internal/bot"
	"study-hub/internal/config"
	"study-hub/internal/handlers"
	"study-hub/internal/hub"
	"study-hub/internal/repository"
	"study-hub/internal/routes"
	"study-hub/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot, the scheduler and the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer store.Close()

	api, err := bot.NewAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	notifications := service.NewNotificationService(bot.NewDisplay(api), cfg.NotifyTTL())
	defer notifications.Close()

	scheduler := service.NewSchedulerService(time.Local)
	hubs := service.NewHubService(store.storeFor, hubOptions(cfg), scheduler, notifications)
	defer hubs.Shutdown()

	breathing := service.NewBreathingService(bot.NewBreathingView(api), hub.BreathingPhases)
	defer breathing.StopAll()

	userRepo := repository.NewUserRepository(store.db)
	reminderSvc := service.NewReminderService(hubs)
	telegramBot := bot.New(api, userRepo, hubs, reminderSvc, breathing, &cfg)

	if err := scheduleReports(scheduler, cfg, telegramBot); err != nil {
		log.Fatalf("schedule reports: %v", err)
	}
	if _, err := scheduler.ScheduleInterval(hubEvictInterval, func() { hubs.EvictIdle(hubMaxIdle) }); err != nil {
		log.Fatalf("schedule hub eviction: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.HTTP.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           routes.NewRouter(handlers.NewHubHandler(hubs), cfg.HTTP.APIKey),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("[info] http api listening on %s", cfg.HTTP.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("http shutdown: %v", err)
			}
		}()
	}

	log.Println("Study hub bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("bot stopped with error: %v", err)
		return err
	}
	log.Println("Shutdown complete.")
	return nil
}

// Hubs unused for hubMaxIdle are dropped from memory.
const (
	hubEvictInterval = 10 * time.Minute
	hubMaxIdle       = 30 * time.Minute
)

func scheduleReports(scheduler *service.SchedulerService, cfg config.Config, telegramBot *bot.Bot) error {
	job := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("report: %v", err)
		}
	}

	if cfg.ReportAt != "" {
		_, err := scheduler.ScheduleDaily(cfg.ReportAt, job)
		return err
	}
	if cfg.ReportInterval > 0 {
		_, err := scheduler.ScheduleInterval(cfg.ReportInterval, job)
		return err
	}
	return nil
}
