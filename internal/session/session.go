package session

import (
	"sync"

	"telegram-ai-assistant-bot/internal/llm"
)

// MaxHistory is the number of conversation turns kept per user. Older turns
// are evicted first.
const MaxHistory = 20

// Session holds one user's mutable preferences and conversation history.
// Callers must hold the session lock while reading or writing any field;
// event handlers keep it for the duration of a single exchange, which
// serializes a user's messages against each other.
type Session struct {
	mu sync.Mutex

	ModelKey      string
	AutoTranslate bool
	Language      string

	history []llm.Message
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Append adds a turn and evicts the oldest turns beyond MaxHistory.
func (s *Session) Append(message llm.Message) {
	s.history = append(s.history, message)
	if len(s.history) > MaxHistory {
		s.history = s.history[len(s.history)-MaxHistory:]
	}
}

// ClearHistory empties the conversation without touching model or
// translation settings.
func (s *Session) ClearHistory() {
	s.history = nil
}

// HistoryLen returns the number of stored turns.
func (s *Session) HistoryLen() int {
	return len(s.history)
}

// History returns a copy of the stored turns in chronological order.
func (s *Session) History() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// BuildRequest returns the provider request: a freshly synthesized system
// turn followed by the current history. The system turn is never stored.
func (s *Session) BuildRequest(systemPrompt string) []llm.Message {
	messages := make([]llm.Message, 0, len(s.history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Text: systemPrompt})
	messages = append(messages, s.history...)
	return messages
}

// Store owns the mapping from Telegram user id to Session. Sessions are
// created lazily and live for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	defaultModel    string
	defaultLanguage string
}

func NewStore(defaultModel string, defaultLanguage string) *Store {
	return &Store{
		sessions:        make(map[int64]*Session),
		defaultModel:    defaultModel,
		defaultLanguage: defaultLanguage,
	}
}

// GetOrCreate returns the session for userID, materializing it with default
// settings on first contact. Repeated calls return the same pointer.
func (st *Store) GetOrCreate(userID int64) *Session {
	st.mu.RLock()
	sess, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return sess
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[userID]; ok {
		return sess
	}

	sess = &Session{
		ModelKey: st.defaultModel,
		Language: st.defaultLanguage,
	}
	st.sessions[userID] = sess
	return sess
}
