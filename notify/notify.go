package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yellowpages-scraper/models"
	"yellowpages-scraper/search"
)

// Telegram rejects messages longer than this
const maxMessageLen = 4096

// previewEntries is how many entries the summary message lists
const previewEntries = 5

// sender is the part of *tgbotapi.BotAPI the notifier uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts search results to a Telegram chat
type Notifier struct {
	bot    sender
	chatID int64
}

// NewNotifier authorizes the bot token and targets chatID
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	log.Debug("Authorized on Telegram", "account", bot.Self.UserName)
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// NotifySearchComplete sends the summary, split into allowed chunks
func (n *Notifier) NotifySearchComplete(result *search.Result, sheetURL string) error {
	for _, part := range splitMessage(FormatSummary(result, sheetURL), maxMessageLen) {
		msg := tgbotapi.NewMessage(n.chatID, part)
		msg.DisableWebPagePreview = true
		if _, err := n.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}
	return nil
}

// SendFile uploads an exported file as a document
func (n *Notifier) SendFile(path string) error {
	doc := tgbotapi.NewDocument(n.chatID, tgbotapi.FilePath(path))
	if _, err := n.bot.Send(doc); err != nil {
		return fmt.Errorf("failed to send file %s: %w", path, err)
	}
	return nil
}

// FormatSummary builds the plain-text message for a finished search
func FormatSummary(result *search.Result, sheetURL string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Search complete: %q in %s\n", result.Query.Term, result.Query.ZipCode)
	fmt.Fprintf(&sb, "Pages: %d\n", result.Pages)
	fmt.Fprintf(&sb, "Entries: %d\n", len(result.Entries))
	if result.Truncated {
		fmt.Fprintf(&sb, "Stopped at page limit (site reports %d pages)\n", result.LastPage)
	}
	if result.FirstURL != "" {
		fmt.Fprintf(&sb, "URL: %s\n", result.FirstURL)
	}
	if sheetURL != "" {
		fmt.Fprintf(&sb, "Sheet: %s\n", sheetURL)
	}

	n := len(result.Entries)
	if n > previewEntries {
		n = previewEntries
	}
	if n > 0 {
		sb.WriteString("\n")
	}
	for i, e := range result.Entries[:n] {
		sb.WriteString(formatEntryLine(i+1, e))
	}
	if len(result.Entries) > n {
		fmt.Fprintf(&sb, "...and %d more\n", len(result.Entries)-n)
	}
	return sb.String()
}

func formatEntryLine(i int, e models.BusinessEntry) string {
	return fmt.Sprintf("%d. %s | %s | %s, %s\n", i, e.Name, e.Phone, e.StreetAddress, e.CityStateZip)
}

// splitMessage breaks text on line boundaries so every part fits maxLen
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if current.Len()+len(line)+1 <= maxLen {
			current.WriteString(line)
			current.WriteString("\n")
			continue
		}
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
		for len(line) >= maxLen {
			cut := maxLen
			for cut > 0 && cut < len(line) && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLen
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if len(line) > 0 {
			current.WriteString(line)
			current.WriteString("\n")
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
