package bot

import (
	"strings"
	"time"

	"telegram-ai-assistant-bot/internal/config"

	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// Init connects to Telegram and registers update handlers that parse every
// inbound update into a typed Event and push it onto the returned queue.
// The caller owns dispatching events off the queue.
func Init() (*telebot.Bot, chan *Event) {
	zap.L().Debug("initializing bot")

	tg, err := telebot.NewBot(telebot.Settings{
		Token:  config.Data.Telegram.Token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		zap.L().Panic("incorrect Telegram token", zap.Error(err))
		return nil, nil
	}

	queue := make(chan *Event, 128)

	commands := []struct {
		Route   string
		Command Command
	}{
		{"/start", CmdStart},
		{"/help", CmdHelp},
		{"/models", CmdModels},
		{"/model", CmdModel},
		{"/clear", CmdClear},
		{"/language", CmdLanguage},
		{"/translate_on", CmdTranslateOn},
		{"/translate_off", CmdTranslateOff},
	}

	for _, cmd := range commands {
		command := cmd.Command
		tg.Handle(cmd.Route, func(c telebot.Context) error {
			queue <- &Event{
				Kind:    EventCommand,
				Command: command,
				UserID:  c.Sender().ID,
				ChatID:  c.Chat().ID,
			}
			return nil
		})
	}

	tg.Handle(telebot.OnText, func(c telebot.Context) error {
		// Unregistered commands still arrive here; they are not
		// conversational input.
		if strings.HasPrefix(c.Text(), "/") {
			return nil
		}

		queue <- &Event{
			Kind:   EventText,
			UserID: c.Sender().ID,
			ChatID: c.Chat().ID,
			Text:   c.Text(),
		}
		return nil
	})

	tg.Handle(telebot.OnPhoto, func(c telebot.Context) error {
		message := c.Message()
		queue <- &Event{
			Kind:        EventPhoto,
			UserID:      c.Sender().ID,
			ChatID:      c.Chat().ID,
			Text:        message.Caption,
			PhotoFileID: message.Photo.FileID,
		}
		return nil
	})

	tg.Handle(telebot.OnVoice, func(c telebot.Context) error {
		queue <- &Event{Kind: EventVoice, UserID: c.Sender().ID, ChatID: c.Chat().ID}
		return nil
	})

	tg.Handle(telebot.OnDocument, func(c telebot.Context) error {
		queue <- &Event{Kind: EventDocument, UserID: c.Sender().ID, ChatID: c.Chat().ID}
		return nil
	})

	// Everything else (stickers, audio, video, contacts, locations) gets the
	// generic unsupported notice.
	unsupported := func(c telebot.Context) error {
		queue <- &Event{Kind: EventOther, UserID: c.Sender().ID, ChatID: c.Chat().ID}
		return nil
	}
	tg.Handle(telebot.OnMedia, unsupported)
	tg.Handle(telebot.OnContact, unsupported)
	tg.Handle(telebot.OnLocation, unsupported)

	tg.Handle(telebot.OnCallback, func(c telebot.Context) error {
		callback := c.Callback()
		if callback == nil || callback.Message == nil {
			return nil
		}

		kind, data := parseCallback(callback.Data)
		queue <- &Event{
			Kind:         EventCallback,
			UserID:       callback.Sender.ID,
			ChatID:       callback.Message.Chat.ID,
			Callback:     kind,
			CallbackID:   callback.ID,
			CallbackData: data,
		}
		return nil
	})

	return tg, queue
}
