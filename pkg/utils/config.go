package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Checkout CheckoutConfig
	Telegram TelegramConfig
	Sweep    SweepConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type AuthConfig struct {
	SessionExpiryHours int
}

type CheckoutConfig struct {
	SecretKey string
	BaseURL   string
	// Base URL of this service, used to build success/cancel callback links
	CallbackBaseURL string
	Currency        string
	TimeoutSeconds  int
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string
}

type SweepConfig struct {
	OverdueIntervalHours  int
	ExpiryIntervalMinutes int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CHECKOUT_CURRENCY", "usd")
	viper.SetDefault("CHECKOUT_TIMEOUT_SECONDS", 15)
	viper.SetDefault("TELEGRAM_BASE_URL", "https://api.telegram.org")
	viper.SetDefault("OVERDUE_SWEEP_INTERVAL_HOURS", 24)
	viper.SetDefault("EXPIRY_SWEEP_INTERVAL_MINUTES", 30)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Auth: AuthConfig{
			SessionExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Checkout: CheckoutConfig{
			SecretKey:       viper.GetString("CHECKOUT_SECRET_KEY"),
			BaseURL:         viper.GetString("CHECKOUT_BASE_URL"),
			CallbackBaseURL: viper.GetString("CHECKOUT_CALLBACK_BASE_URL"),
			Currency:        viper.GetString("CHECKOUT_CURRENCY"),
			TimeoutSeconds:  viper.GetInt("CHECKOUT_TIMEOUT_SECONDS"),
		},
		Telegram: TelegramConfig{
			BotToken: viper.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID:   viper.GetString("TELEGRAM_CHAT_ID"),
			BaseURL:  viper.GetString("TELEGRAM_BASE_URL"),
		},
		Sweep: SweepConfig{
			OverdueIntervalHours:  viper.GetInt("OVERDUE_SWEEP_INTERVAL_HOURS"),
			ExpiryIntervalMinutes: viper.GetInt("EXPIRY_SWEEP_INTERVAL_MINUTES"),
		},
	}

	return config, nil
}
