package main

import (
	"context"
	"os"
	"os/signal"

	"telegram-ai-assistant-bot/internal/bot"
	"telegram-ai-assistant-bot/internal/config"
	"telegram-ai-assistant-bot/internal/llm"
	"telegram-ai-assistant-bot/internal/models"
	"telegram-ai-assistant-bot/internal/session"
	"telegram-ai-assistant-bot/internal/translate"

	"go.uber.org/zap"
)

func main() {
	appCtx, cancel := context.WithCancel(context.Background())
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	config.Init()
	botInstance, eventQueue := bot.Init()

	registry := models.NewRegistry()
	sessions := session.NewStore(models.DefaultKey, config.Data.BaseLanguage)

	generic := llm.NewOpenRouterClient(
		config.Data.OpenRouter.Endpoint,
		config.Data.OpenRouter.ApiKey,
		config.Data.OpenRouter.SiteURL,
		config.Data.OpenRouter.SiteName,
	)

	var direct llm.Client = generic
	if config.Data.Gemini.ApiKey != "" {
		geminiClient, err := llm.NewGeminiClient(appCtx, config.Data.Gemini.ApiKey)
		if err != nil {
			zap.L().Panic("error initializing Gemini client", zap.Error(err))
		}
		direct = geminiClient
	} else {
		zap.L().Warn("no Gemini API key, routing the direct model through OpenRouter")
	}

	var translator translate.Translator = translate.Noop{}
	if config.Data.Translate.ApiKey != "" {
		googleTranslator, err := translate.NewGoogleTranslator(appCtx, config.Data.Translate.ApiKey)
		if err != nil {
			zap.L().Warn("translation service unavailable, auto-translation disabled", zap.Error(err))
		} else {
			translator = googleTranslator
		}
	} else {
		zap.L().Warn("no translation API key, auto-translation disabled")
	}

	handler := bot.NewHandler(
		registry,
		sessions,
		generic,
		direct,
		translator,
		bot.NewTelegramGateway(botInstance),
		config.Data.BaseLanguage,
	)

	go botInstance.Start()
	zap.L().Info("bot is running")

	for {
		select {
		case event := <-eventQueue:
			go handler.Handle(appCtx, event)
		case <-appCtx.Done():
			botInstance.Stop()
		case <-interrupt:
			zap.L().Info("exiting")
			cancel()
			botInstance.Stop()
			zap.L().Debug("done")
			return
		}
	}
}
