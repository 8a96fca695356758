package bot

import (
	"fmt"
	"strings"

	"telegram-ai-assistant-bot/internal/models"
)

const systemPrompt = "You are my AI assistant helping users in English. " +
	"You should not introduce yourself as a language model. You should respond as my AI assistant. " +
	"Under no circumstances should you mention that you use OpenRouter or other models. " +
	"Always introduce yourself only as my assistant."

const (
	apologyText       = "I'm sorry, I can't respond right now. Please try again later."
	problemText       = "There was a problem processing your message. Please try again later."
	voiceNoticeText   = "Voice message processing is not supported in this version of the bot."
	docNoticeText     = "Document processing is not supported in this version of the bot."
	unknownNoticeText = "This type of message is not supported."

	defaultImagePrompt = "Please analyze this image."

	historyClearedText = "🗑️ Your chat history has been cleared. You can start a new conversation."
	chooseLanguageText = "🌐 Please select your preferred language:"
)

// supportedLanguages lists the selectable reply languages in keyboard order.
var supportedLanguages = []struct {
	Code string
	Name string
	Flag string
}{
	{"en", "English", "🇬🇧"},
	{"fa", "Persian", "🇮🇷"},
	{"fr", "French", "🇫🇷"},
	{"de", "German", "🇩🇪"},
	{"es", "Spanish", "🇪🇸"},
	{"ru", "Russian", "🇷🇺"},
	{"zh", "Chinese", "🇨🇳"},
	{"ja", "Japanese", "🇯🇵"},
	{"ar", "Arabic", "🇸🇦"},
	{"tr", "Turkish", "🇹🇷"},
}

func languageName(code string) string {
	for _, lang := range supportedLanguages {
		if lang.Code == code {
			return lang.Name
		}
	}

	return "Unknown"
}

func capabilitiesLine(entry models.Entry) string {
	if entry.SupportsImages() {
		return "✓ Image analysis, ✓ Text"
	}

	return "✓ Text"
}

func welcomeText(entry models.Entry) string {
	return fmt.Sprintf(`🌟 Welcome to my AI assistant! 🌟

I'm here to help you with various tasks. Just ask your question and I'll respond.

🔹 To see the list of capabilities: /help
🔹 To change the AI model: /models
🔹 To set the response language: /language
🔹 To clear your chat history: /clear

Current model: %s %s`, entry.Emoji, entry.Name)
}

func helpText(current models.Entry, direct models.Entry) string {
	imageVerb := "cannot"
	if current.SupportsImages() {
		imageVerb = "can"
	}

	return fmt.Sprintf(`📚 Guide to using my AI assistant:

🤖 *Main Capabilities*:
• Answering general and specialized questions
• Helping write texts and content
• Analyzing information and data
• Helping solve math and logic problems
• Translating texts and terms
• Providing ideas and creativity
• Coding and debugging

📱 *Bot Commands*:
/start - Restart the bot
/help - Display this guide
/models - Select AI model
/model - Show current model
/clear - Clear chat history
/language - Set response language
/translate_on - Enable automatic translation
/translate_off - Disable automatic translation

📷 *Image Analysis Capability*:
Current model %s analyze images.
To analyze images, you need to use model %s %s.

Current model: %s %s`, imageVerb, direct.Emoji, direct.Name, current.Emoji, current.Name)
}

func modelsText(entries []models.Entry) string {
	var sb strings.Builder
	sb.WriteString("📋 List of my AI models:\n\n")

	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("%s *%s*\n%s\n", entry.Emoji, entry.Name, entry.Description))
		sb.WriteString(fmt.Sprintf("Capabilities: %s\n\n", capabilitiesLine(entry)))
	}

	sb.WriteString("\nTo select a model, click on the corresponding button.")
	return sb.String()
}

func modelDetailsText(entry models.Entry) string {
	return fmt.Sprintf(`🤖 *Current model*: %s *%s*

Description: %s

Capabilities: %s

To change the model, use /models command.`, entry.Emoji, entry.Name, entry.Description, capabilitiesLine(entry))
}

func modelSelectedText(entry models.Entry) string {
	return fmt.Sprintf("✅ Model %s *%s* selected.\n\n%s\n\nCapabilities: %s",
		entry.Emoji, entry.Name, entry.Description, capabilitiesLine(entry))
}

func imageMismatchText(entry models.Entry) string {
	return fmt.Sprintf("⚠️ The selected model (%s) does not support image analysis. "+
		"Please use /model to select a different model or use /models to see the list of available models.", entry.Name)
}

func translateOnText(languageCode string) string {
	return fmt.Sprintf("✅ Auto-translation enabled. Responses will be translated to %s.", languageName(languageCode))
}

func translateOffText() string {
	return "❌ Auto-translation disabled. Responses will be in the original language (English)."
}

func languageSelectedText(code string, autoTranslate bool) string {
	if autoTranslate {
		return fmt.Sprintf("✅ %s language selected and auto-translation enabled.", languageName(code))
	}

	return fmt.Sprintf("✅ %s language selected.", languageName(code))
}

// modelsKeyboard lays out one selectable button per entry, two per row.
func modelsKeyboard(entries []models.Entry) [][]Button {
	var rows [][]Button
	for i := 0; i < len(entries); i += 2 {
		row := []Button{{
			Label: fmt.Sprintf("%s %s", entries[i].Emoji, entries[i].Name),
			Data:  "model_" + entries[i].Key,
		}}

		if i+1 < len(entries) {
			row = append(row, Button{
				Label: fmt.Sprintf("%s %s", entries[i+1].Emoji, entries[i+1].Name),
				Data:  "model_" + entries[i+1].Key,
			})
		}

		rows = append(rows, row)
	}

	return rows
}

func languageKeyboard() [][]Button {
	var rows [][]Button
	for i := 0; i < len(supportedLanguages); i += 2 {
		row := []Button{{
			Label: fmt.Sprintf("%s %s", supportedLanguages[i].Flag, supportedLanguages[i].Name),
			Data:  "lang_" + supportedLanguages[i].Code,
		}}

		if i+1 < len(supportedLanguages) {
			row = append(row, Button{
				Label: fmt.Sprintf("%s %s", supportedLanguages[i+1].Flag, supportedLanguages[i+1].Name),
				Data:  "lang_" + supportedLanguages[i+1].Code,
			})
		}

		rows = append(rows, row)
	}

	return rows
}
