package bot

import (
	"strings"
)

type EventKind int8

const (
	EventText EventKind = iota
	EventPhoto
	EventVoice
	EventDocument
	EventOther
	EventCommand
	EventCallback
)

type Command int8

const (
	CmdStart Command = iota
	CmdHelp
	CmdModels
	CmdModel
	CmdClear
	CmdLanguage
	CmdTranslateOn
	CmdTranslateOff
)

type CallbackKind int8

const (
	CallbackModel CallbackKind = iota
	CallbackLanguage
	CallbackUnknown
)

// Event is one inbound Telegram update, parsed once at the telebot boundary
// into a typed shape the handlers can match exhaustively.
type Event struct {
	Kind   EventKind
	UserID int64
	ChatID int64

	// Text is the message text for EventText, or the caption for EventPhoto.
	Text        string
	PhotoFileID string

	Command Command

	Callback     CallbackKind
	CallbackID   string
	CallbackData string
}

// parseCallback splits callback data into its kind and payload. telebot
// prefixes inline-button data with "\f" on some paths.
func parseCallback(data string) (CallbackKind, string) {
	data = strings.TrimPrefix(data, "\f")

	switch {
	case strings.HasPrefix(data, "model_"):
		return CallbackModel, strings.TrimPrefix(data, "model_")
	case strings.HasPrefix(data, "lang_"):
		return CallbackLanguage, strings.TrimPrefix(data, "lang_")
	}

	return CallbackUnknown, ""
}
