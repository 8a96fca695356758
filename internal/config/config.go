package config

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Environment int8

const (
	Development Environment = iota
	Production
)

type TelegramConfig struct {
	Token string
}

type OpenRouterConfig struct {
	Endpoint string
	ApiKey   string
	SiteURL  string
	SiteName string
}

type GeminiConfig struct {
	ApiKey string
}

type TranslateConfig struct {
	ApiKey string
}

type Config struct {
	Telegram     TelegramConfig
	OpenRouter   OpenRouterConfig
	Gemini       GeminiConfig
	Translate    TranslateConfig
	BaseLanguage string
	LogLevel     zapcore.Level
	EnvType      Environment
}

var Data *Config = nil

func Init() {
	config := Config{}
	Data = &config

	viper.AddConfigPath(".")
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	viper.SetDefault("OPENROUTER_ENDPOINT", "https://openrouter.ai/api/v1/chat/completions")
	viper.SetDefault("BASE_LANGUAGE", "en")

	err := viper.ReadInConfig()
	if err != nil {
		config.LogLevel = zapcore.DebugLevel

		InitLogger()
		zap.L().Fatal("error reading config file", zap.Error(err))
	}

	levelString := viper.GetString("LOG_LEVEL")
	switch levelString {
	case "debug":
		config.LogLevel = zapcore.DebugLevel
	case "info":
		config.LogLevel = zapcore.InfoLevel
	case "warn":
		config.LogLevel = zapcore.WarnLevel
	case "error":
		config.LogLevel = zapcore.ErrorLevel
	default:
		config.LogLevel = zapcore.InfoLevel
	}

	InitLogger()

	envString := viper.Get("APP_ENV")
	switch envString {
	case "production", "prod":
		config.EnvType = Production
	default:
		config.EnvType = Development
	}

	config.Telegram = TelegramConfig{
		Token: viper.GetString("TELEGRAM_TOKEN"),
	}

	config.OpenRouter = OpenRouterConfig{
		Endpoint: viper.GetString("OPENROUTER_ENDPOINT"),
		ApiKey:   viper.GetString("OPENROUTER_API_KEY"),
		SiteURL:  viper.GetString("SITE_URL"),
		SiteName: viper.GetString("SITE_NAME"),
	}

	config.Gemini = GeminiConfig{
		ApiKey: viper.GetString("GEMINI_API_KEY"),
	}

	config.Translate = TranslateConfig{
		ApiKey: viper.GetString("GOOGLE_TRANSLATE_API_KEY"),
	}

	config.BaseLanguage = viper.GetString("BASE_LANGUAGE")

	if config.Telegram.Token == "" {
		zap.L().Fatal("telegram token is required")
	}

	if config.OpenRouter.ApiKey == "" {
		zap.L().Fatal("openrouter api key is required")
	}

	zap.L().Debug("config loaded")
}

func InitLogger() {
	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(Data.LogLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if Data.EnvType == Development {
		zapConfig.Development = true
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zapConfig.EncoderConfig.TimeKey = ""
		zapConfig.EncoderConfig.LevelKey = ""
	}

	logger, _ := zapConfig.Build()
	defer zap.ReplaceGlobals(logger)
}
