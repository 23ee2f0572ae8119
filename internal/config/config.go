package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	DB struct {
		DSN string
	}
	LLM struct {
		GroqAPIKey  string
		BaseURL     string
		Model       string
		FastModel   string
		Temperature float64
		MaxTokens   int
	}
	Weather struct {
		APIKey  string
		BaseURL string
		Units   string
	}
	Telegram struct {
		BotToken      string
		ChatID        int64
		RatePerSecond int
	}
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	API struct {
		Port     string
		BasePath string
	}
	Proactive struct {
		Enabled              bool
		PollInterval         int // seconds between order/permit checks
		WeatherInterval      int // seconds between weather checks
		PermitWarningDays    int
		PermitValidityDays   int // heuristic permit lifetime; pending product confirmation
		DeadlineWarningHours int
		AlertCheckInterval   int // seconds between proactive deliveries in the main loop
		MaxAlertAgeHours     int
	}
	Logging struct {
		Dir   string
		Level string
	}
	WakeWords []string
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	cfg.DB.DSN = os.Getenv("DB_DSN")

	// LLM settings
	cfg.LLM.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.LLM.BaseURL = os.Getenv("GROQ_BASE_URL")
	cfg.LLM.Model = os.Getenv("GROQ_MODEL")
	cfg.LLM.FastModel = os.Getenv("GROQ_FAST_MODEL")
	if t, err := strconv.ParseFloat(os.Getenv("LLM_TEMPERATURE"), 64); err == nil {
		cfg.LLM.Temperature = t
	}
	if mt, err := strconv.Atoi(os.Getenv("LLM_MAX_TOKENS")); err == nil {
		cfg.LLM.MaxTokens = mt
	}

	// Weather settings
	cfg.Weather.APIKey = os.Getenv("WEATHER_API_KEY")
	cfg.Weather.BaseURL = os.Getenv("WEATHER_BASE_URL")
	cfg.Weather.Units = os.Getenv("WEATHER_UNITS")

	// Telegram push settings (optional)
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = id
	}
	if r, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_PER_SECOND")); err == nil {
		cfg.Telegram.RatePerSecond = r
	}

	// Kafka order-event feed (optional)
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Proactive monitoring settings
	cfg.Proactive.Enabled = getenvBool("PROACTIVE_ENABLED", true)
	cfg.Proactive.PollInterval = getenvInt("PROACTIVE_POLL_INTERVAL", 120)
	cfg.Proactive.WeatherInterval = getenvInt("PROACTIVE_WEATHER_INTERVAL", 1800)
	cfg.Proactive.PermitWarningDays = getenvInt("PROACTIVE_PERMIT_WARNING_DAYS", 3)
	cfg.Proactive.PermitValidityDays = getenvInt("PROACTIVE_PERMIT_VALIDITY_DAYS", 7)
	cfg.Proactive.DeadlineWarningHours = getenvInt("PROACTIVE_DEADLINE_WARNING_HOURS", 24)
	cfg.Proactive.AlertCheckInterval = getenvInt("PROACTIVE_ALERT_CHECK_INTERVAL", 15)
	cfg.Proactive.MaxAlertAgeHours = getenvInt("PROACTIVE_MAX_ALERT_AGE_HOURS", 24)

	// Logging
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.LLM.GroqAPIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "llama-3.3-70b-versatile"
	}
	if cfg.LLM.FastModel == "" {
		cfg.LLM.FastModel = "llama-3.3-70b-specdec"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 300
	}
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = "http://api.openweathermap.org/data/2.5/weather"
	}
	if cfg.Weather.Units == "" {
		cfg.Weather.Units = "metric"
	}
	if cfg.Telegram.RatePerSecond == 0 {
		cfg.Telegram.RatePerSecond = 1
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "order_events"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "heavyhaul-assistant"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.WakeWords = []string{"james", "pixel"}

	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "true", "TRUE", "1", "yes":
		return true
	case "false", "FALSE", "0", "no":
		return false
	}
	return def
}
