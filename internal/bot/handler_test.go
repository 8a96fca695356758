package bot

import (
	"context"
	"errors"
	"testing"

	"telegram-ai-assistant-bot/internal/llm"
	"telegram-ai-assistant-bot/internal/models"
	"telegram-ai-assistant-bot/internal/session"
	"telegram-ai-assistant-bot/internal/translate"

	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	ChatID int64
	Text   string
	Opts   *SendOptions
}

type fakeGateway struct {
	sent      []sentMessage
	typing    int
	answered  []string
	downloads int
	fileData  []byte
	fileErr   error
	sendErr   error
}

func (g *fakeGateway) Send(chatID int64, text string, opts *SendOptions) error {
	g.sent = append(g.sent, sentMessage{ChatID: chatID, Text: text, Opts: opts})
	return g.sendErr
}

func (g *fakeGateway) SendTyping(int64) error {
	g.typing++
	return nil
}

func (g *fakeGateway) AnswerCallback(callbackID string) error {
	g.answered = append(g.answered, callbackID)
	return nil
}

func (g *fakeGateway) DownloadFile(string) ([]byte, error) {
	g.downloads++
	return g.fileData, g.fileErr
}

type fakeClient struct {
	calls       int
	gotModel    string
	gotMessages []llm.Message
	reply       string
	err         error
}

func (c *fakeClient) Complete(_ context.Context, model string, messages []llm.Message) (string, error) {
	c.calls++
	c.gotModel = model
	c.gotMessages = messages
	return c.reply, c.err
}

type fakeTranslator struct {
	calls  int
	gotTo  string
	prefix string
	err    error
}

func (t *fakeTranslator) Translate(_ context.Context, text string, target string) (string, error) {
	t.calls++
	t.gotTo = target
	if t.err != nil {
		return "", t.err
	}
	return t.prefix + text, nil
}

type fixture struct {
	handler  *Handler
	sessions *session.Store
	registry *models.Registry
	gateway  *fakeGateway
	generic  *fakeClient
	direct   *fakeClient
}

func newFixture(translator translate.Translator) *fixture {
	registry := models.NewRegistry()
	sessions := session.NewStore(models.DefaultKey, "en")
	gateway := &fakeGateway{}
	generic := &fakeClient{reply: "hi"}
	direct := &fakeClient{reply: "direct hi"}
	if translator == nil {
		translator = translate.Noop{}
	}

	return &fixture{
		handler:  NewHandler(registry, sessions, generic, direct, translator, gateway, "en"),
		sessions: sessions,
		registry: registry,
		gateway:  gateway,
		generic:  generic,
		direct:   direct,
	}
}

func textEvent(userID int64, text string) *Event {
	return &Event{Kind: EventText, UserID: userID, ChatID: userID, Text: text}
}

func commandEvent(userID int64, cmd Command) *Event {
	return &Event{Kind: EventCommand, UserID: userID, ChatID: userID, Command: cmd}
}

func callbackEvent(userID int64, kind CallbackKind, data string) *Event {
	return &Event{
		Kind:         EventCallback,
		UserID:       userID,
		ChatID:       userID,
		Callback:     kind,
		CallbackID:   "cb-1",
		CallbackData: data,
	}
}

func TestTextMessageEndToEnd(t *testing.T) {
	f := newFixture(nil)

	f.handler.Handle(context.Background(), textEvent(1, "hello"))

	require.Equal(t, 1, f.generic.calls)
	require.Zero(t, f.direct.calls)
	require.Equal(t, "meta-llama/llama-4-scout:free", f.generic.gotModel)

	// Request is [system, user:"hello"].
	require.Len(t, f.generic.gotMessages, 2)
	require.Equal(t, llm.RoleSystem, f.generic.gotMessages[0].Role)
	require.Equal(t, "hello", f.generic.gotMessages[1].Text)

	history := f.sessions.GetOrCreate(1).History()
	require.Len(t, history, 2)
	require.Equal(t, llm.RoleUser, history[0].Role)
	require.Equal(t, "hello", history[0].Text)
	require.Equal(t, llm.RoleAssistant, history[1].Role)
	require.Equal(t, "hi", history[1].Text)

	require.Len(t, f.gateway.sent, 1)
	require.Equal(t, "hi", f.gateway.sent[0].Text)
	require.Equal(t, 1, f.gateway.typing)
}

func TestEmptyTextIgnored(t *testing.T) {
	f := newFixture(nil)

	f.handler.Handle(context.Background(), textEvent(1, ""))

	require.Zero(t, f.generic.calls)
	require.Empty(t, f.gateway.sent)
	require.Zero(t, f.sessions.GetOrCreate(1).HistoryLen())
}

func TestImageToTextOnlyModel(t *testing.T) {
	f := newFixture(nil)

	f.handler.Handle(context.Background(), &Event{
		Kind: EventPhoto, UserID: 1, ChatID: 1, PhotoFileID: "file-1",
	})

	// No provider call, no history mutation, no download.
	require.Zero(t, f.generic.calls)
	require.Zero(t, f.direct.calls)
	require.Zero(t, f.gateway.downloads)
	require.Zero(t, f.sessions.GetOrCreate(1).HistoryLen())

	require.Len(t, f.gateway.sent, 1)
	require.Contains(t, f.gateway.sent[0].Text, "Standard")
	require.Contains(t, f.gateway.sent[0].Text, "does not support image analysis")
}

func TestImageRoutedToDirectBackend(t *testing.T) {
	f := newFixture(nil)
	f.gateway.fileData = []byte{0xff, 0xd8, 0xff}
	f.sessions.GetOrCreate(1).ModelKey = models.DirectKey

	f.handler.Handle(context.Background(), &Event{
		Kind: EventPhoto, UserID: 1, ChatID: 1, PhotoFileID: "file-1", Text: "what is this?",
	})

	require.Zero(t, f.generic.calls)
	require.Equal(t, 1, f.direct.calls)
	require.Equal(t, 1, f.gateway.downloads)

	last := f.direct.gotMessages[len(f.direct.gotMessages)-1]
	require.Equal(t, "what is this?", last.Text)
	require.Equal(t, []byte{0xff, 0xd8, 0xff}, last.Image)
}

func TestImageWithoutCaptionGetsDefaultPrompt(t *testing.T) {
	f := newFixture(nil)
	f.gateway.fileData = []byte{1}
	f.sessions.GetOrCreate(1).ModelKey = models.DirectKey

	f.handler.Handle(context.Background(), &Event{
		Kind: EventPhoto, UserID: 1, ChatID: 1, PhotoFileID: "file-1",
	})

	last := f.direct.gotMessages[len(f.direct.gotMessages)-1]
	require.Equal(t, defaultImagePrompt, last.Text)
}

func TestDirectRoutingRequiresFlagAndKey(t *testing.T) {
	f := newFixture(nil)

	for _, entry := range f.registry.All() {
		if entry.Key == models.DirectKey {
			continue
		}

		f.direct.calls = 0
		f.generic.calls = 0
		sess := f.sessions.GetOrCreate(99)
		sess.ModelKey = entry.Key
		sess.ClearHistory()

		f.handler.Handle(context.Background(), textEvent(99, "hello"))

		require.Zero(t, f.direct.calls, "entry %s must not use the direct backend", entry.Key)
		require.Equal(t, 1, f.generic.calls)
		require.Equal(t, entry.BackendID, f.generic.gotModel)
	}
}

func TestProviderFailureSendsApology(t *testing.T) {
	f := newFixture(nil)
	f.generic.err = errors.New("connection refused")

	f.handler.Handle(context.Background(), textEvent(1, "hello"))

	require.Len(t, f.gateway.sent, 1)
	require.Equal(t, apologyText, f.gateway.sent[0].Text)

	// The user turn stays, and the apology is stored as the assistant turn.
	history := f.sessions.GetOrCreate(1).History()
	require.Len(t, history, 2)
	require.Equal(t, "hello", history[0].Text)
	require.Equal(t, apologyText, history[1].Text)
}

func TestTranslationApplied(t *testing.T) {
	translator := &fakeTranslator{prefix: "[fr] "}
	f := newFixture(translator)

	sess := f.sessions.GetOrCreate(1)
	sess.AutoTranslate = true
	sess.Language = "fr"

	f.handler.Handle(context.Background(), textEvent(1, "hello"))

	require.Equal(t, 1, translator.calls)
	require.Equal(t, "fr", translator.gotTo)
	require.Equal(t, "[fr] hi", f.gateway.sent[0].Text)

	// History keeps the untranslated reply.
	history := sess.History()
	require.Equal(t, "hi", history[1].Text)
}

func TestTranslationSkippedForBaseLanguage(t *testing.T) {
	translator := &fakeTranslator{prefix: "[x] "}
	f := newFixture(translator)

	sess := f.sessions.GetOrCreate(1)
	sess.AutoTranslate = true
	sess.Language = "en"

	f.handler.Handle(context.Background(), textEvent(1, "hello"))

	require.Zero(t, translator.calls)
	require.Equal(t, "hi", f.gateway.sent[0].Text)
}

func TestTranslationFailureFallsBack(t *testing.T) {
	translator := &fakeTranslator{err: errors.New("quota exceeded")}
	f := newFixture(translator)

	sess := f.sessions.GetOrCreate(1)
	sess.AutoTranslate = true
	sess.Language = "fr"

	f.handler.Handle(context.Background(), textEvent(1, "hello"))

	require.Equal(t, "hi", f.gateway.sent[0].Text)
}

func TestVoiceAndDocumentNotices(t *testing.T) {
	f := newFixture(nil)

	f.handler.Handle(context.Background(), &Event{Kind: EventVoice, UserID: 1, ChatID: 1})
	f.handler.Handle(context.Background(), &Event{Kind: EventDocument, UserID: 1, ChatID: 1})
	f.handler.Handle(context.Background(), &Event{Kind: EventOther, UserID: 1, ChatID: 1})

	require.Zero(t, f.generic.calls)
	require.Zero(t, f.sessions.GetOrCreate(1).HistoryLen())
	require.Equal(t, []string{voiceNoticeText, docNoticeText, unknownNoticeText}, []string{
		f.gateway.sent[0].Text, f.gateway.sent[1].Text, f.gateway.sent[2].Text,
	})
}

func TestClearCommandKeepsSettings(t *testing.T) {
	f := newFixture(nil)

	sess := f.sessions.GetOrCreate(1)
	sess.ModelKey = "deepcoder"
	sess.AutoTranslate = true
	sess.Language = "ru"
	sess.Append(llm.Message{Role: llm.RoleUser, Text: "hello"})

	f.handler.Handle(context.Background(), commandEvent(1, CmdClear))

	require.Zero(t, sess.HistoryLen())
	require.Equal(t, "deepcoder", sess.ModelKey)
	require.True(t, sess.AutoTranslate)
	require.Equal(t, "ru", sess.Language)
	require.Equal(t, historyClearedText, f.gateway.sent[0].Text)
}

func TestStartCommandShowsCurrentModel(t *testing.T) {
	f := newFixture(nil)

	f.handler.Handle(context.Background(), commandEvent(1, CmdStart))

	require.Len(t, f.gateway.sent, 1)
	require.Contains(t, f.gateway.sent[0].Text, "Welcome")
	require.Contains(t, f.gateway.sent[0].Text, "Standard")
}

func TestModelsCommandKeyboard(t *testing.T) {
	f := newFixture(nil)

	f.handler.Handle(context.Background(), commandEvent(1, CmdModels))

	require.Len(t, f.gateway.sent, 1)
	opts := f.gateway.sent[0].Opts
	require.NotNil(t, opts)
	require.True(t, opts.Markdown)

	// Nine entries, two buttons per row.
	require.Len(t, opts.Keyboard, 5)
	require.Equal(t, "model_gemini-2.5-pro", opts.Keyboard[0][0].Data)
	require.Len(t, opts.Keyboard[4], 1)
}

func TestLanguageCommandKeyboard(t *testing.T) {
	f := newFixture(nil)

	f.handler.Handle(context.Background(), commandEvent(1, CmdLanguage))

	opts := f.gateway.sent[0].Opts
	require.NotNil(t, opts)
	require.Len(t, opts.Keyboard, 5)
	require.Equal(t, "lang_en", opts.Keyboard[0][0].Data)
	require.Equal(t, "lang_tr", opts.Keyboard[4][1].Data)
}

func TestTranslateToggleCommands(t *testing.T) {
	f := newFixture(nil)
	sess := f.sessions.GetOrCreate(1)
	sess.Language = "de"

	f.handler.Handle(context.Background(), commandEvent(1, CmdTranslateOn))
	require.True(t, sess.AutoTranslate)
	require.Contains(t, f.gateway.sent[0].Text, "German")

	f.handler.Handle(context.Background(), commandEvent(1, CmdTranslateOff))
	require.False(t, sess.AutoTranslate)
	require.Equal(t, "de", sess.Language)
}

func TestLanguageCallbackCouplesAutoTranslate(t *testing.T) {
	f := newFixture(nil)
	sess := f.sessions.GetOrCreate(1)

	// Any non-base language always enables auto-translation.
	sess.AutoTranslate = false
	f.handler.Handle(context.Background(), callbackEvent(1, CallbackLanguage, "fa"))
	require.Equal(t, "fa", sess.Language)
	require.True(t, sess.AutoTranslate)
	require.Contains(t, f.gateway.sent[0].Text, "Persian")
	require.Contains(t, f.gateway.sent[0].Text, "auto-translation enabled")

	// The base language always disables it, even after /translate_on.
	f.handler.Handle(context.Background(), commandEvent(1, CmdTranslateOn))
	f.handler.Handle(context.Background(), callbackEvent(1, CallbackLanguage, "en"))
	require.Equal(t, "en", sess.Language)
	require.False(t, sess.AutoTranslate)

	require.Len(t, f.gateway.answered, 2)
}

func TestModelCallbackSelectsModel(t *testing.T) {
	f := newFixture(nil)
	sess := f.sessions.GetOrCreate(1)

	f.handler.Handle(context.Background(), callbackEvent(1, CallbackModel, "deepseek-r1"))

	require.Equal(t, "deepseek-r1", sess.ModelKey)
	require.Contains(t, f.gateway.sent[0].Text, "Deep")
	require.Equal(t, []string{"cb-1"}, f.gateway.answered)
}

func TestUnknownModelCallbackIgnored(t *testing.T) {
	f := newFixture(nil)
	sess := f.sessions.GetOrCreate(1)

	f.handler.Handle(context.Background(), callbackEvent(1, CallbackModel, "bogus"))

	require.Equal(t, models.DefaultKey, sess.ModelKey)
	require.Empty(t, f.gateway.sent)
	require.Equal(t, []string{"cb-1"}, f.gateway.answered)
}

func TestUnknownCallbackKindOnlyAcknowledged(t *testing.T) {
	f := newFixture(nil)

	f.handler.Handle(context.Background(), callbackEvent(1, CallbackUnknown, ""))

	require.Empty(t, f.gateway.sent)
	require.Equal(t, []string{"cb-1"}, f.gateway.answered)
}

func TestDownloadFailureSendsProblemNotice(t *testing.T) {
	f := newFixture(nil)
	f.gateway.fileErr = errors.New("file gone")
	f.sessions.GetOrCreate(1).ModelKey = models.DirectKey

	f.handler.Handle(context.Background(), &Event{
		Kind: EventPhoto, UserID: 1, ChatID: 1, PhotoFileID: "file-1",
	})

	require.Zero(t, f.direct.calls)
	require.Zero(t, f.sessions.GetOrCreate(1).HistoryLen())
	require.Equal(t, problemText, f.gateway.sent[len(f.gateway.sent)-1].Text)
}

func TestSendFailureIsSwallowed(t *testing.T) {
	f := newFixture(nil)
	f.gateway.sendErr = errors.New("blocked by user")

	require.NotPanics(t, func() {
		f.handler.Handle(context.Background(), textEvent(1, "hello"))
	})
}

func TestLongReplyTruncated(t *testing.T) {
	f := newFixture(nil)
	long := make([]byte, maxReplyLength+100)
	for i := range long {
		long[i] = 'a'
	}
	f.generic.reply = string(long)

	f.handler.Handle(context.Background(), textEvent(1, "hello"))

	require.Len(t, f.gateway.sent[0].Text, maxReplyLength)
}

func TestParseCallback(t *testing.T) {
	kind, data := parseCallback("model_llama4-scout")
	require.Equal(t, CallbackModel, kind)
	require.Equal(t, "llama4-scout", data)

	kind, data = parseCallback("\flang_fr")
	require.Equal(t, CallbackLanguage, kind)
	require.Equal(t, "fr", data)

	kind, _ = parseCallback("something_else")
	require.Equal(t, CallbackUnknown, kind)
}
