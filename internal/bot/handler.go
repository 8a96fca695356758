package bot

import (
	"context"

	"telegram-ai-assistant-bot/internal/llm"
	"telegram-ai-assistant-bot/internal/models"
	"telegram-ai-assistant-bot/internal/session"
	"telegram-ai-assistant-bot/internal/translate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxReplyLength is Telegram's hard message size limit.
const maxReplyLength = 4096

// Handler processes typed inbound events: conversational messages go through
// the dispatch router and response pipeline, commands and callbacks mutate
// the session store directly.
type Handler struct {
	registry     *models.Registry
	sessions     *session.Store
	generic      llm.Client
	direct       llm.Client
	translator   translate.Translator
	gateway      Gateway
	baseLanguage string
}

func NewHandler(
	registry *models.Registry,
	sessions *session.Store,
	generic llm.Client,
	direct llm.Client,
	translator translate.Translator,
	gateway Gateway,
	baseLanguage string,
) *Handler {
	return &Handler{
		registry:     registry,
		sessions:     sessions,
		generic:      generic,
		direct:       direct,
		translator:   translator,
		gateway:      gateway,
		baseLanguage: baseLanguage,
	}
}

// Handle is the top boundary of per-event processing. Nothing escapes it:
// errors and panics end in a single generic notice to the user, and a
// failure to send even that is logged and swallowed.
func (h *Handler) Handle(ctx context.Context, event *Event) {
	logger := zap.L().With(
		zap.String("requestId", uuid.NewString()),
		zap.Int64("userId", event.UserID),
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while processing event", zap.Any("panic", r))
			h.notifyProblem(event.ChatID, logger)
		}
	}()

	var err error
	switch event.Kind {
	case EventCommand:
		err = h.handleCommand(event)
	case EventCallback:
		err = h.handleCallback(event)
	default:
		err = h.handleMessage(ctx, event, logger)
	}

	if err != nil {
		logger.Error("error processing event", zap.Error(err))
		h.notifyProblem(event.ChatID, logger)
	}
}

func (h *Handler) notifyProblem(chatID int64, logger *zap.Logger) {
	if err := h.gateway.Send(chatID, problemText, nil); err != nil {
		logger.Error("error sending failure notice", zap.Error(err))
	}
}

func (h *Handler) handleMessage(ctx context.Context, event *Event, logger *zap.Logger) error {
	sess := h.sessions.GetOrCreate(event.UserID)

	switch event.Kind {
	case EventVoice:
		return h.gateway.Send(event.ChatID, voiceNoticeText, nil)
	case EventDocument:
		return h.gateway.Send(event.ChatID, docNoticeText, nil)
	case EventOther:
		return h.gateway.Send(event.ChatID, unknownNoticeText, nil)
	}

	if event.Kind == EventText && event.Text == "" {
		return nil
	}

	// Holding the session lock across the whole exchange serializes this
	// user's messages; other users proceed in parallel.
	sess.Lock()
	defer sess.Unlock()

	entry := h.registry.Resolve(sess.ModelKey)

	userTurn := llm.Message{Role: llm.RoleUser, Text: event.Text}
	if event.Kind == EventPhoto {
		_ = h.gateway.SendTyping(event.ChatID)

		if !entry.SupportsImages() {
			return h.gateway.Send(event.ChatID, imageMismatchText(entry), nil)
		}

		data, err := h.gateway.DownloadFile(event.PhotoFileID)
		if err != nil {
			return err
		}

		userTurn.Image = data
		if userTurn.Text == "" {
			userTurn.Text = defaultImagePrompt
		}
	}

	sess.Append(userTurn)
	_ = h.gateway.SendTyping(event.ChatID)

	messages := sess.BuildRequest(systemPrompt)
	client, backendModel := h.pick(entry)

	logger.Debug("inferencing", zap.String("model", entry.Key), zap.Int("messages", len(messages)))
	reply, err := client.Complete(ctx, backendModel, messages)
	if err != nil {
		logger.Error("provider call failed", zap.String("model", entry.Key), zap.Error(err))
		reply = apologyText
	}

	final := reply
	if sess.AutoTranslate && sess.Language != h.baseLanguage {
		translated, err := h.translator.Translate(ctx, reply, sess.Language)
		if err != nil {
			logger.Error("translation failed", zap.String("language", sess.Language), zap.Error(err))
		} else {
			final = translated
		}
	}

	// History keeps the original-language text, never the translation.
	sess.Append(llm.Message{Role: llm.RoleAssistant, Text: reply})

	if len(final) > maxReplyLength {
		final = final[:maxReplyLength]
	}

	return h.gateway.Send(event.ChatID, final, nil)
}

// pick applies the fixed routing rule: the direct backend serves exactly the
// one designated entry. The flag alone is not sufficient; both conditions
// are required.
func (h *Handler) pick(entry models.Entry) (llm.Client, string) {
	if entry.DirectBackend && entry.Key == models.DirectKey {
		return h.direct, entry.BackendID
	}

	return h.generic, entry.BackendID
}

func (h *Handler) handleCommand(event *Event) error {
	sess := h.sessions.GetOrCreate(event.UserID)
	sess.Lock()
	defer sess.Unlock()

	switch event.Command {
	case CmdStart:
		return h.gateway.Send(event.ChatID, welcomeText(h.registry.Resolve(sess.ModelKey)), nil)

	case CmdHelp:
		text := helpText(h.registry.Resolve(sess.ModelKey), h.registry.Resolve(models.DirectKey))
		return h.gateway.Send(event.ChatID, text, &SendOptions{Markdown: true})

	case CmdModels:
		entries := h.registry.All()
		return h.gateway.Send(event.ChatID, modelsText(entries), &SendOptions{
			Markdown: true,
			Keyboard: modelsKeyboard(entries),
		})

	case CmdModel:
		return h.gateway.Send(event.ChatID, modelDetailsText(h.registry.Resolve(sess.ModelKey)), &SendOptions{Markdown: true})

	case CmdClear:
		sess.ClearHistory()
		return h.gateway.Send(event.ChatID, historyClearedText, nil)

	case CmdLanguage:
		return h.gateway.Send(event.ChatID, chooseLanguageText, &SendOptions{Keyboard: languageKeyboard()})

	case CmdTranslateOn:
		sess.AutoTranslate = true
		return h.gateway.Send(event.ChatID, translateOnText(sess.Language), nil)

	case CmdTranslateOff:
		sess.AutoTranslate = false
		return h.gateway.Send(event.ChatID, translateOffText(), nil)
	}

	return nil
}

func (h *Handler) handleCallback(event *Event) error {
	sess := h.sessions.GetOrCreate(event.UserID)
	sess.Lock()
	defer sess.Unlock()

	// Always acknowledged, even for tokens we ignore, so the client stops
	// showing a spinner on the pressed button.
	defer func() {
		_ = h.gateway.AnswerCallback(event.CallbackID)
	}()

	switch event.Callback {
	case CallbackLanguage:
		sess.Language = event.CallbackData
		// Selecting any language other than the base one force-enables
		// auto-translation; selecting the base language disables it. This
		// overrides whatever /translate_on or /translate_off set before.
		sess.AutoTranslate = event.CallbackData != h.baseLanguage
		return h.gateway.Send(event.ChatID, languageSelectedText(event.CallbackData, sess.AutoTranslate), nil)

	case CallbackModel:
		if !h.registry.Has(event.CallbackData) {
			return nil
		}

		sess.ModelKey = event.CallbackData
		entry := h.registry.Resolve(event.CallbackData)
		return h.gateway.Send(event.ChatID, modelSelectedText(entry), &SendOptions{Markdown: true})
	}

	return nil
}
