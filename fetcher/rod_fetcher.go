package fetcher

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodFetcher implements the Fetcher interface using rod (headless browser)
type RodFetcher struct {
	browser    *rod.Browser
	renderWait time.Duration
}

// Common Chrome/Chromium locations, tried before letting rod download one
var browserPaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher(userDataDir string, renderWait time.Duration) (*RodFetcher, error) {
	// Create directory if it doesn't exist
	if userDataDir != "" {
		if err := os.MkdirAll(userDataDir, 0755); err != nil {
			log.Warn("failed to create browser data directory, using a temporary profile", "dir", userDataDir, "err", err)
			userDataDir = ""
		}
	}

	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled").
		NoSandbox(true).
		Leakless(false). // Disable leakless to avoid antivirus issues
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")
	if userDataDir != "" {
		l = l.UserDataDir(userDataDir)
	}

	for _, path := range browserPaths {
		if _, err := os.Stat(path); err == nil {
			l = l.Bin(path)
			break
		}
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w\n\nNote: On Linux, you may need to install Chromium dependencies:\n  apt-get update && apt-get install -y chromium chromium-sandbox", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodFetcher{
		browser:    browser,
		renderWait: renderWait,
	}, nil
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// FetchPage implements the Fetcher interface
func (rf *RodFetcher) FetchPage(url string) (string, error) {
	page, err := rf.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	// Navigate to the URL
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	// Wait for page to load
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("failed to wait for page load: %w", err)
	}
	time.Sleep(rf.renderWait) // Give JavaScript time to render

	// Wait for page to stabilize
	if err := page.Timeout(10 * time.Second).WaitStable(500 * time.Millisecond); err != nil {
		log.Warn("page did not stabilize within timeout, continuing anyway", "url", url, "err", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}

	log.Debug("rendered page", "url", url, "bytes", len(html))
	return html, nil
}
