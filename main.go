package main

import (
	"embed"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shoecreatify/shoecreatify-api/cmd"
	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

//go:embed templates/email/template.html
//go:embed templates/i18n
var templates embed.FS

var (
	Version   = "?"
	BuildTime = "?"
	GitCommit = "-"
	GitRef    = "-"
)

func main() {
	//version info
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("shoecreatify %s, built %s from %s (%s)", Version, BuildTime, GitCommit, GitRef)
		return
	}
	logger := bootstrap()
	defer func() {
		_ = logger.Sync()

	}()
	cmd.TopLevelLogger = logger
	cmd.Execute()
}

func bootstrap() *zap.Logger {
	if _, err := os.Stat(".env"); err == nil {
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Error loading .env file")
		}
	}
	cfg := zap.NewProductionConfig()
	if r := os.Getenv("DEBUG_LOG"); r == "true" {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		log.Fatal(err)
	}
	cobra.OnInitialize(func() { initConfig(logger) })
	return logger
}

func setDefaults() {
	viper.SetDefault("server.address", "")
	viper.SetDefault("server.production", false)
	viper.SetDefault("smtp.enabled", false)
	viper.SetDefault("smtp.display-name", "ShoeCreatify")
	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.dsn", "shoecreatify.db")
	viper.SetDefault("behaviour.name", "ShoeCreatify")
	viper.SetDefault("behaviour.frontend-url", "http://localhost:5173")
	viper.SetDefault("behaviour.default-locale", "en")
	viper.SetDefault("behaviour.auto-lockout-count", 5)
	viper.SetDefault("behaviour.auto-lockout-duration", "15m")
	viper.SetDefault("behaviour.password-min-length", 6)
	viper.SetDefault("behaviour.name-min-length", 3)
	viper.SetDefault("behaviour.otp-expiry", "10m")
	viper.SetDefault("behaviour.email-link-expiry", "24h")
	viper.SetDefault("behaviour.reset-grant-expiry", "30m")
	viper.SetDefault("behaviour.reset-requires-otp", true)
	viper.SetDefault("behaviour.notification-workers", 2)
	viper.SetDefault("behaviour.notification-buffer", 256)
	viper.SetDefault("session.cookie-name", "shoecreatify.sid")
	viper.SetDefault("session.max-age", "24h")
	viper.SetDefault("session.remember-me-duration", "720h")
	viper.SetDefault("google.enable", false)
	viper.SetDefault("rate-limit.enable", true)
	viper.SetDefault("rate-limit.redis-db", 0)
	viper.SetDefault("metrics.enable", true)
	viper.SetDefault("metrics.path", "/metrics")
	viper.SetDefault("cors.allow-credentials", true)
	viper.SetDefault("cors.allowed-origins", []string{"http://localhost:5173"})
	viper.SetDefault("cors.allowed-methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
}

func initConfig(logger *zap.Logger) {
	bind := func(from string, to string) {
		err := viper.BindEnv(to, from)
		if err != nil {
			logger.Error("unable to bindenv", zap.String("from", from), zap.String("to", to), zap.Error(err))
		}

	}
	setDefaults()
	bind("PORT", "server.port")
	bind("ADDRESS", "server.address")
	bind("FRONTEND_URL", "behaviour.frontend-url")
	bind("GOOGLE_CLIENT_ID", "google.client-id")
	bind("GOOGLE_CLIENT_SECRET", "google.client-secret")

	bind("SHOE_PORT", "server.port")
	bind("SHOE_ADDRESS", "server.address")
	bind("SHOE_SERVER_CSRF_TOKEN", "server.csrf-token")
	bind("SHOE_SERVER_PRODUCTION", "server.production")

	bind("SHOE_SMTP_ENABLED", "smtp.enabled")
	bind("SHOE_SMTP_HOST", "smtp.host")
	bind("SHOE_SMTP_PORT", "smtp.port")
	bind("SHOE_SMTP_USERNAME", "smtp.username")
	bind("SHOE_SMTP_PASSWORD", "smtp.password")
	bind("SHOE_SMTP_DISPLAYNAME", "smtp.display-name")
	bind("SHOE_SMTP_ADDRESS", "smtp.address")

	bind("SHOE_DATABASE_TYPE", "database.type")
	bind("SHOE_DATABASE_DSN", "database.dsn")

	bind("SHOE_BEHAVIOUR_NAME", "behaviour.name")
	bind("SHOE_BEHAVIOUR_FRONTEND_URL", "behaviour.frontend-url")
	bind("SHOE_BEHAVIOUR_DEFAULT_LOCALE", "behaviour.default-locale")
	bind("SHOE_BEHAVIOUR_AUTO_LOCKOUT_COUNT", "behaviour.auto-lockout-count")
	bind("SHOE_BEHAVIOUR_AUTO_LOCKOUT_DURATION", "behaviour.auto-lockout-duration")
	bind("SHOE_BEHAVIOUR_PASSWORD_MIN_LENGTH", "behaviour.password-min-length")
	bind("SHOE_BEHAVIOUR_NAME_MIN_LENGTH", "behaviour.name-min-length")
	bind("SHOE_BEHAVIOUR_OTP_EXPIRY", "behaviour.otp-expiry")
	bind("SHOE_BEHAVIOUR_EMAIL_LINK_EXPIRY", "behaviour.email-link-expiry")
	bind("SHOE_BEHAVIOUR_RESET_GRANT_EXPIRY", "behaviour.reset-grant-expiry")
	bind("SHOE_BEHAVIOUR_RESET_REQUIRES_OTP", "behaviour.reset-requires-otp")
	bind("SHOE_BEHAVIOUR_NOTIFICATION_WORKERS", "behaviour.notification-workers")
	bind("SHOE_BEHAVIOUR_NOTIFICATION_BUFFER", "behaviour.notification-buffer")

	bind("SHOE_SESSION_COOKIE_NAME", "session.cookie-name")
	bind("SHOE_SESSION_MAX_AGE", "session.max-age")
	bind("SHOE_SESSION_REMEMBER_ME_DURATION", "session.remember-me-duration")

	bind("SHOE_GOOGLE_ENABLE", "google.enable")
	bind("SHOE_GOOGLE_CLIENT_ID", "google.client-id")
	bind("SHOE_GOOGLE_CLIENT_SECRET", "google.client-secret")
	bind("SHOE_GOOGLE_CALLBACK_URL", "google.callback-url")

	bind("SHOE_RATE_LIMIT_ENABLE", "rate-limit.enable")
	bind("SHOE_RATE_LIMIT_REDIS_ADDRESS", "rate-limit.redis-address")
	bind("SHOE_RATE_LIMIT_REDIS_PASSWORD", "rate-limit.redis-password")
	bind("SHOE_RATE_LIMIT_REDIS_DB", "rate-limit.redis-db")

	bind("SHOE_METRICS_ENABLE", "metrics.enable")
	bind("SHOE_METRICS_PATH", "metrics.path")

	bind("SHOE_CORS_ALLOWED_ORIGINS", "cors.allowed-origins")
	bind("SHOE_CORS_ALLOWED_METHODS", "cors.allowed-methods")
	bind("SHOE_CORS_ALLOW_CREDENTIALS", "cors.allow-credentials")

	if cmd.ConfigFileLocation != "" {
		logger.Debug("Using supplied config file", zap.String("file", cmd.ConfigFileLocation))
		viper.SetConfigFile(cmd.ConfigFileLocation)
	} else {
		path, err := os.Getwd()
		if err != nil {
			logger.Warn("Unable to get current working dir", zap.Error(err))
		}
		cobra.CheckErr(err)
		viper.AddConfigPath(path)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		logger.Debug("Looking for default config file")
	}
	//precedence: environment overwrites yml
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Debug("No config file loaded")
	} else {
		logger.Debug("Config file loaded", zap.String("file", viper.ConfigFileUsed()))
	}

	conf := &config.Configuration{}
	err := viper.Unmarshal(conf)
	if err != nil {
		logger.Fatal("Unable to unmarshall config", zap.Error(err))
	}
	logger.Debug("Config loaded", zap.Any("config", conf))
	logger.Debug("Validating final config")
	if err = conf.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	cmd.LoadedConfig = conf
	cmd.FileSystemsConfig = &config.FileSystems{
		Templates: templates,
	}
}
