package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"heavyhaul-assistant/internal/api"
	"heavyhaul-assistant/internal/assistant"
	"heavyhaul-assistant/internal/config"
	"heavyhaul-assistant/internal/db"
	"heavyhaul-assistant/internal/events"
	"heavyhaul-assistant/internal/llm"
	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/monitor"
	"heavyhaul-assistant/internal/providers"
	"heavyhaul-assistant/internal/speech"
	"heavyhaul-assistant/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logger.Infof("Shutdown signal received")
		cancel()
	}()

	dbConn, err := db.New(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	// Interactive session login on the console.
	user, err := assistant.Login(ctx, dbConn, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to initialize session: %v", err)
	}

	cache, err := assistant.NewOrderCache("data/order_cache", logger)
	if err != nil {
		log.Fatalf("Failed to initialize order cache: %v", err)
	}
	conversation, err := assistant.NewConversationLog("data/conversation_log.txt", logger)
	if err != nil {
		log.Fatalf("Failed to initialize conversation log: %v", err)
	}
	sess := assistant.NewSession(user, cache, conversation)

	chatClient := llm.New(cfg, logger)
	weatherClient := weather.New(cfg, logger)

	notifier, err := providers.NewTelegramNotifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram notifier: %v", err)
	}

	var mon *monitor.Monitor
	if cfg.Proactive.Enabled {
		// A nil *TelegramNotifier must stay a nil interface.
		var monNotifier monitor.Notifier
		if notifier != nil {
			monNotifier = notifier
		}
		mon = monitor.New(cfg, user, dbConn, weatherClient, chatClient, monNotifier, logger)
		mon.Start(ctx)
		defer mon.Stop()
		logger.Infof("Proactive monitoring enabled")

		if consumer := events.NewConsumer(cfg, mon, logger); consumer != nil {
			logger.Infof("Kafka consumer initialized with topic: %s", cfg.Kafka.Topic)
			go consumer.Run(ctx)
			defer consumer.Close()
		}

		router := api.NewRouter(cfg, mon, sess, logger)
		go func() {
			logger.Infof("Starting API server on %s", cfg.API.Port)
			if err := router.Run(cfg.API.Port); err != nil {
				logger.Errorf("API server failed: %v", err)
			}
		}()
	}

	console := speech.NewConsoleIO(os.Stdin, os.Stdout)
	app := assistant.NewApp(cfg, dbConn, chatClient, weatherClient, mon, sess, console, console, logger)
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf("Assistant loop failed: %v", err)
	}
}
