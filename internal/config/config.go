package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabasePath                  string `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string `mapstructure:"JWT_SECRET"`
	AdminEmail                    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword                 string `mapstructure:"ADMIN_PASSWORD"`
	SMTPHost                      string `mapstructure:"SMTP_HOST"`
	SMTPPort                      int    `mapstructure:"SMTP_PORT"`
	SMTPUser                      string `mapstructure:"SMTP_USER"`
	SMTPPass                      string `mapstructure:"SMTP_PASS"`
	SMTPFrom                      string `mapstructure:"SMTP_FROM"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	EnableCORS                    bool   `mapstructure:"ENABLE_CORS"`
	ClientURL                     string `mapstructure:"CLIENT_URL"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "bootcamp.db")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("CLIENT_URL", "http://localhost:3000")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("ADMIN_EMAIL")
	viper.BindEnv("ADMIN_PASSWORD")
	viper.BindEnv("SMTP_HOST")
	viper.BindEnv("SMTP_USER")
	viper.BindEnv("SMTP_PASS")
	viper.BindEnv("SMTP_FROM")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("ENABLE_CORS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
