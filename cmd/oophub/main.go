package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/appdata"
	"github.com/gravitrone/oophub/internal/cache"
	"github.com/gravitrone/oophub/internal/cmd"
	"github.com/gravitrone/oophub/internal/config"
	"github.com/gravitrone/oophub/internal/logging"
	"github.com/gravitrone/oophub/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "oophub",
		Short: "OOP Hub - object-oriented programming resources",
		Long:  "OOP Hub terminal client: browse categories and topics, read sections and search the catalog.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.CategoriesCmd())
	root.AddCommand(cmd.TopicsCmd())
	root.AddCommand(cmd.TopicCmd())
	root.AddCommand(cmd.SearchCmd())
	root.AddCommand(cmd.ProxyCmd())
	root.AddCommand(cmd.ConfigCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return fmt.Errorf("oophub needs a terminal; use a subcommand such as 'oophub categories' instead")
	}

	logger, logFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	client := api.NewClient(cfg.Endpoint(),
		api.WithTimeout(cfg.Timeout),
		api.WithRateLimit(cfg.RateLimit),
		api.WithLogger(logger),
	)
	logger.Info("starting tui", "endpoint", cfg.Endpoint(), "search_mode", string(cfg.SearchMode))

	app := ui.New(ui.Options{
		Source:   appdata.NewCachedSource(client, cache.NewSession(), logger),
		Searcher: client,
		Health:   client,
		Mode:     cfg.SearchMode,
		Debounce: cfg.SearchDebounce,
		Limit:    cfg.SearchLimit,
		Logger:   logger,
		VimKeys:  cfg.VimKeys,
		APIURL:   cfg.Endpoint(),
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
