package bot

import (
	"io"

	"gopkg.in/telebot.v4"
)

// Button is one inline-keyboard button with its opaque callback token.
type Button struct {
	Label string
	Data  string
}

type SendOptions struct {
	Markdown bool
	Keyboard [][]Button
}

// Gateway is the outbound side of the messaging platform.
type Gateway interface {
	Send(chatID int64, text string, opts *SendOptions) error
	SendTyping(chatID int64) error
	AnswerCallback(callbackID string) error
	DownloadFile(fileID string) ([]byte, error)
}

type telegramGateway struct {
	bot *telebot.Bot
}

func NewTelegramGateway(tg *telebot.Bot) Gateway {
	return &telegramGateway{bot: tg}
}

func (g *telegramGateway) Send(chatID int64, text string, opts *SendOptions) error {
	if opts == nil {
		_, err := g.bot.Send(telebot.ChatID(chatID), text)
		return err
	}

	sendOptions := &telebot.SendOptions{}
	if opts.Markdown {
		sendOptions.ParseMode = telebot.ModeMarkdown
	}

	if len(opts.Keyboard) > 0 {
		rows := make([][]telebot.InlineButton, 0, len(opts.Keyboard))
		for _, row := range opts.Keyboard {
			line := make([]telebot.InlineButton, 0, len(row))
			for _, button := range row {
				line = append(line, telebot.InlineButton{Text: button.Label, Data: button.Data})
			}
			rows = append(rows, line)
		}

		sendOptions.ReplyMarkup = &telebot.ReplyMarkup{InlineKeyboard: rows}
	}

	_, err := g.bot.Send(telebot.ChatID(chatID), text, sendOptions)
	return err
}

func (g *telegramGateway) SendTyping(chatID int64) error {
	return g.bot.Notify(telebot.ChatID(chatID), telebot.Typing)
}

func (g *telegramGateway) AnswerCallback(callbackID string) error {
	return g.bot.Respond(&telebot.Callback{ID: callbackID})
}

// DownloadFile fetches the file contents from Telegram. The bytes are only
// held for the duration of one request, never written anywhere.
func (g *telegramGateway) DownloadFile(fileID string) ([]byte, error) {
	reader, err := g.bot.File(&telebot.File{FileID: fileID})
	if err != nil {
		return nil, err
	}

	defer reader.Close()
	return io.ReadAll(reader)
}
