package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-planner/internal/bot"
	"study-planner/internal/config"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	accountRepo := repository.NewAccountRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authSvc := service.NewAuthService(accountRepo)
	taskSvc := service.NewTaskService(taskRepo)
	scheduler := service.NewSchedulerService(cfg.Location)

	telegramBot, err := bot.New(cfg.TelegramToken, bot.Services{
		Auth:      authSvc,
		Tasks:     taskSvc,
		Profiles:  service.NewProfileService(authSvc, taskSvc),
		Agenda:    service.NewAgendaService(taskSvc),
		Scheduler: scheduler,
	}, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	if cfg.AgendaTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.AgendaTime, func() {
			jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDailyAgendas(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("agenda: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule agenda: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Study planner bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
