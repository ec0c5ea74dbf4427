package notify

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yellowpages-scraper/models"
	"yellowpages-scraper/search"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func sampleResult(n int) *search.Result {
	entries := make([]models.BusinessEntry, n)
	for i := range entries {
		entries[i] = models.BusinessEntry{
			Name:          "Biz",
			Phone:         "555-0100",
			StreetAddress: "1 Main St",
			CityStateZip:  "Beverly Hills, CA 90210",
		}
	}
	return &search.Result{
		Query:    models.SearchQuery{Term: "plumber", ZipCode: "90210"},
		FirstURL: "https://www.yellowpages.com/search?search_terms=plumber&geo_location_terms=90210",
		Entries:  entries,
		Pages:    2,
	}
}

func TestFormatSummary(t *testing.T) {
	msg := FormatSummary(sampleResult(7), "https://docs.google.com/spreadsheets/d/x/edit")

	assert.Contains(t, msg, `"plumber" in 90210`)
	assert.Contains(t, msg, "Pages: 2")
	assert.Contains(t, msg, "Entries: 7")
	assert.Contains(t, msg, "Sheet: https://docs.google.com/spreadsheets/d/x/edit")
	assert.Contains(t, msg, "1. Biz | 555-0100 | 1 Main St, Beverly Hills, CA 90210")
	assert.Contains(t, msg, "5. Biz")
	assert.NotContains(t, msg, "6. Biz")
	assert.Contains(t, msg, "...and 2 more")
}

func TestFormatSummary_Empty(t *testing.T) {
	r := sampleResult(0)
	r.Truncated = true
	r.LastPage = 12
	msg := FormatSummary(r, "")

	assert.Contains(t, msg, "Entries: 0")
	assert.Contains(t, msg, "site reports 12")
	assert.NotContains(t, msg, "Sheet:")
	assert.NotContains(t, msg, "more")
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\n"}, parts)

	long := strings.Repeat("x", 25)
	parts = splitMessage(long, 10)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 10)
	}
	assert.Equal(t, long, strings.ReplaceAll(strings.Join(parts, ""), "\n", ""))
}

func TestSplitMessage_KeepsRunesWhole(t *testing.T) {
	long := strings.Repeat("é", 7) // 14 bytes
	parts := splitMessage(long, 5)
	for _, p := range parts {
		assert.True(t, utf8.ValidString(p), "part %q", p)
		assert.LessOrEqual(t, len(p), 5)
	}
	assert.Equal(t, long, strings.ReplaceAll(strings.Join(parts, ""), "\n", ""))

	exact := strings.Repeat("x", 10)
	assert.Equal(t, []string{exact, "x\n"}, splitMessage(exact+"x", 10))
}

func TestNotifySearchComplete(t *testing.T) {
	fake := &fakeSender{}
	n := &Notifier{bot: fake, chatID: 42}

	require.NoError(t, n.NotifySearchComplete(sampleResult(3), ""))
	require.Len(t, fake.sent, 1)

	msg, ok := fake.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Entries: 3")
}

func TestSendFile(t *testing.T) {
	fake := &fakeSender{}
	n := &Notifier{bot: fake, chatID: 42}

	require.NoError(t, n.SendFile("/tmp/results.csv"))
	doc, ok := fake.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.FilePath("/tmp/results.csv"), doc.File)

	fake.err = errors.New("network down")
	assert.Error(t, n.SendFile("/tmp/results.csv"))
	assert.Error(t, n.NotifySearchComplete(sampleResult(1), ""))
}
