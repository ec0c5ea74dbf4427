package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"yellowpages-scraper/config"
	"yellowpages-scraper/db"
	"yellowpages-scraper/display"
	"yellowpages-scraper/exporter"
	"yellowpages-scraper/fetcher"
	"yellowpages-scraper/filter"
	"yellowpages-scraper/models"
	"yellowpages-scraper/parser"
	"yellowpages-scraper/picker"
	"yellowpages-scraper/prompt"
	"yellowpages-scraper/search"
	"yellowpages-scraper/searchurl"
)

// CLIFlags are the command line options; anything left empty falls back
// to the config file and then to the prompts
type CLIFlags struct {
	Config   string `help:"Path to configuration file" default:"config.yaml" type:"path"`
	Term     string `help:"Search term (prompted when empty)" short:"t"`
	Zip      string `help:"Zip code (prompted when empty)" short:"z"`
	Format   string `help:"Export format: json or csv" short:"f"`
	Out      string `help:"Write results to this file without prompting" short:"o" type:"path"`
	Engine   string `help:"Fetcher engine: colly or rod"`
	MaxPages int    `help:"Maximum number of pages to fetch (0 = no limit)" default:"-1"`
	Debug    bool   `help:"Enable debug logging"`
	Batch    bool   `help:"Never prompt; skip the final 'Press Enter'"`
}

func main() {
	var flags CLIFlags
	kong.Parse(&flags,
		kong.Name("yellowpages-scraper"),
		kong.Description("Search Yellow Pages for a term near a zip code and export the listings."),
	)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to load .env", "err", err)
	}

	cfg := loadConfig(flags.Config)
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatal("Invalid environment", "err", err)
	}
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}
	setupLogging(cfg.Log.Level)

	if err := run(cfg, flags); err != nil {
		log.Error("Search failed", "err", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when absent
func loadConfig(configPath string) *config.Config {
	if _, err := os.Stat(configPath); err != nil {
		log.Debug("Config file not found. Using default configuration.", "path", configPath)
		return config.GetDefaultConfig()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Warn("Failed to load config file. Using defaults.", "err", err)
		return config.GetDefaultConfig()
	}
	return cfg
}

// applyFlags overrides config values with the flags that were given
func applyFlags(cfg *config.Config, flags CLIFlags) {
	if flags.Engine != "" {
		cfg.Fetcher.Engine = flags.Engine
	}
	if flags.MaxPages >= 0 {
		cfg.Search.MaxPages = flags.MaxPages
	}
	if flags.Format != "" {
		cfg.Output.Format = flags.Format
	}
	if flags.Out != "" {
		cfg.Output.Path = flags.Out
	}
	if flags.Debug {
		cfg.Log.Level = "debug"
	}
}

func setupLogging(level string) {
	log.SetOutput(os.Stderr)
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warn("Unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetReportTimestamp(lvl == log.DebugLevel)
}

func run(cfg *config.Config, flags CLIFlags) error {
	console := prompt.New(os.Stdin, os.Stdout)

	query, err := readQuery(console, flags)
	if err != nil {
		return err
	}

	urls, err := searchurl.NewBuilder(cfg.Search)
	if err != nil {
		return err
	}

	f, err := fetcher.New(cfg.Fetcher)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer f.Close()

	searcher := search.NewSearcher(f, parser.NewParser(cfg.Selectors, cfg.Placeholder), urls, cfg.Search.MaxPages)

	database, searchID := openStore(cfg, urls, query)
	if database != nil {
		defer database.Close()
	}

	spin := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	searcher.OnFetch = func(page int, url string) {
		log.Debug("Fetching", "page", page, "url", url)
		spin.Suffix = fmt.Sprintf(" Fetching page %d", page)
		spin.Start()
	}
	searcher.OnPage = func(page int, entries []models.BusinessEntry) {
		spin.Stop()
		display.PrintEntries(os.Stdout, entries)
	}

	result, err := searcher.Run(query)
	spin.Stop()
	if err != nil {
		if database != nil {
			finishSearch(database, searchID, db.StatusFailed, result)
		}
		return err
	}

	entryFilter := filter.NewFilter(cfg.Filters, cfg.Placeholder)
	if entryFilter.Active() {
		before := len(result.Entries)
		result.Entries = entryFilter.ApplyFilters(result.Entries)
		log.Info("Applied filters", "before", before, "after", len(result.Entries))
	}

	fmt.Println(display.Summary(result))

	if database != nil {
		if err := database.SaveEntries(searchID, result.Entries, cfg.Placeholder); err != nil {
			log.Warn("Failed to save entries to database", "err", err)
			finishSearch(database, searchID, db.StatusFailed, result)
		} else {
			finishSearch(database, searchID, db.StatusDone, result)
		}
	}

	pick := savePicker(console, os.Stdin, os.Stdout, defaultFileName(query))
	savedPath, err := export(cfg, flags, console, pick, result.Entries)
	if err != nil {
		return err
	}
	if savedPath != "" {
		fmt.Printf("File saved to %s\n", savedPath)
	}

	sheetURL := writeSheet(cfg, result)
	notifyTelegram(cfg, result, sheetURL, savedPath)

	if !flags.Batch {
		console.WaitForEnter()
	}
	return nil
}

// readQuery takes term and zip from flags and prompts for what is missing
func readQuery(console *prompt.Prompter, flags CLIFlags) (models.SearchQuery, error) {
	query := models.SearchQuery{
		Term:    strings.TrimSpace(flags.Term),
		ZipCode: strings.TrimSpace(flags.Zip),
	}
	if flags.Batch && (query.Term == "" || query.ZipCode == "") {
		return query, fmt.Errorf("--term and --zip are required with --batch")
	}

	var err error
	if query.Term == "" {
		if query.Term, err = console.SearchTerm(); err != nil {
			return query, fmt.Errorf("failed to read search term: %w", err)
		}
	}
	if query.ZipCode == "" {
		if query.ZipCode, err = console.ZipCode(); err != nil {
			return query, fmt.Errorf("failed to read zip code: %w", err)
		}
	}
	return query, nil
}

// savePicker picks the terminal dialog only when stdin is a terminal and the
// console has not read ahead of it; otherwise the path is read as a line
// from the same buffer as the other answers
func savePicker(console *prompt.Prompter, in *os.File, out io.Writer, defaultName string) exporter.Picker {
	if isatty.IsTerminal(in.Fd()) && console.Buffered() == 0 {
		return picker.New(in, out, defaultName)
	}
	return console
}

// export writes straight to the configured path, or asks the user
// and opens the save picker. It returns "" when nothing was written.
func export(cfg *config.Config, flags CLIFlags, console *prompt.Prompter, pick exporter.Picker, entries []models.BusinessEntry) (string, error) {
	if cfg.Output.Path != "" {
		format, err := outputFormat(cfg.Output.Format, cfg.Output.Path)
		if err != nil {
			return "", err
		}
		if err := exporter.Export(cfg.Output.Path, format, entries); err != nil {
			return "", err
		}
		return cfg.Output.Path, nil
	}
	if flags.Batch {
		return "", nil
	}

	save, err := console.ConfirmSave()
	if err != nil {
		log.Debug("No answer to save prompt", "err", err)
		return "", nil
	}
	if !save {
		return "", nil
	}
	// an invalid choice has already been reported on the console
	format, err := console.ChooseFormat()
	if err != nil {
		if !errors.Is(err, prompt.ErrInvalidChoice) {
			log.Debug("No answer to format prompt", "err", err)
		}
		return "", nil
	}

	return exporter.SaveWithPicker(pick, format, entries)
}

// outputFormat uses the explicit format, else the file extension
func outputFormat(format, path string) (exporter.Format, error) {
	if format != "" {
		return exporter.ParseFormat(format)
	}
	return exporter.ParseFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// defaultFileName seeds the picker, e.g. "plumber_90210"
func defaultFileName(query models.SearchQuery) string {
	name := strings.Join(strings.Fields(query.Term+" "+query.ZipCode), "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "results"
	}
	return name
}
