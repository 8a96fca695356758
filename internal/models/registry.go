package models

type Capability string

const (
	CapText  Capability = "text"
	CapImage Capability = "image"
)

const (
	// DefaultKey is the model every new session starts with.
	DefaultKey = "llama4-scout"

	// DirectKey is the single entry served through the direct Gemini API
	// instead of OpenRouter. The routing check requires both the flag and
	// this exact key, see Registry.entries.
	DirectKey = "gemini-2.5-pro"
)

// Entry describes one selectable backend configuration.
type Entry struct {
	Key           string
	BackendID     string
	Name          string
	Description   string
	Emoji         string
	Capabilities  []Capability
	DirectBackend bool
}

// SupportsImages reports whether the entry can analyze image input.
func (e Entry) SupportsImages() bool {
	for _, c := range e.Capabilities {
		if c == CapImage {
			return true
		}
	}

	return false
}

// Registry is the static catalog of available models.
type Registry struct {
	entries []Entry
	byKey   map[string]Entry
}

func NewRegistry() *Registry {
	entries := []Entry{
		{
			Key:           "gemini-2.5-pro",
			BackendID:     "google/gemini-2.5-pro-exp-03-25:free",
			Name:          "Advanced",
			Description:   "Powerful assistant with text and image analysis capabilities",
			Emoji:         "🌟",
			Capabilities:  []Capability{CapText, CapImage},
			DirectBackend: true,
		},
		{
			Key:          "llama4-scout",
			BackendID:    "meta-llama/llama-4-scout:free",
			Name:         "Standard",
			Description:  "High-quality general-purpose assistant",
			Emoji:        "🚀",
			Capabilities: []Capability{CapText},
		},
		{
			Key:          "nemotron-ultra",
			BackendID:    "nvidia/llama-3.1-nemotron-ultra-253b-v1:free",
			Name:         "Ultra",
			Description:  "Extremely powerful assistant for complex analyses",
			Emoji:        "⚡",
			Capabilities: []Capability{CapText},
		},
		{
			Key:          "nemotron-70b",
			BackendID:    "nvidia/llama-3.1-nemotron-70b-instruct:free",
			Name:         "Strong",
			Description:  "Powerful assistant for everyday conversations",
			Emoji:        "💪",
			Capabilities: []Capability{CapText},
		},
		{
			Key:          "mistral-small",
			BackendID:    "mistralai/mistral-small-24b-instruct-2501:free",
			Name:         "Fast",
			Description:  "Fast assistant for quick responses",
			Emoji:        "⚡",
			Capabilities: []Capability{CapText},
		},
		{
			Key:          "deepseek-r1",
			BackendID:    "deepseek/deepseek-r1-zero:free",
			Name:         "Deep",
			Description:  "Specialized assistant for in-depth analyses",
			Emoji:        "🔍",
			Capabilities: []Capability{CapText},
		},
		{
			Key:          "deepcoder",
			BackendID:    "agentica-org/deepcoder-14b-preview:free",
			Name:         "Coder",
			Description:  "Specialized assistant for coding and programming questions",
			Emoji:        "💻",
			Capabilities: []Capability{CapText},
		},
		{
			Key:          "qwen-32b",
			BackendID:    "qwen/qwq-32b:free",
			Name:         "China",
			Description:  "Assistant with expertise in China and Asian topics",
			Emoji:        "🇨🇳",
			Capabilities: []Capability{CapText},
		},
		{
			Key:          "moonlight",
			BackendID:    "moonshotai/moonlight-16b-a3b-instruct:free",
			Name:         "Moonlight",
			Description:  "Assistant with high creativity for writing and ideation",
			Emoji:        "🌙",
			Capabilities: []Capability{CapText},
		},
	}

	byKey := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		byKey[entry.Key] = entry
	}

	return &Registry{entries: entries, byKey: byKey}
}

// Resolve returns the entry for key, or the default entry when the key is
// unknown or empty. It never fails; every place a model key is consulted
// goes through this fallback.
func (r *Registry) Resolve(key string) Entry {
	if entry, ok := r.byKey[key]; ok {
		return entry
	}

	return r.byKey[DefaultKey]
}

// Has reports whether key names a registry entry.
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// Default returns the entry new sessions start with.
func (r *Registry) Default() Entry {
	return r.byKey[DefaultKey]
}

// All returns every entry in display order.
func (r *Registry) All() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
