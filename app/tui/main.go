package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noelzubin/launch_search/logging"
	"github.com/noelzubin/launch_search/search/engine"
	"github.com/noelzubin/launch_search/search/usage_store"
	"github.com/noelzubin/launch_search/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// read application config
	config, err := utils.NewConfig()
	if err != nil {
		return err
	}

	// Setup logging.
	if err := logging.Init(logging.Config{Dir: config.LogDir, Level: config.LogLevel}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Shutdown()

	// open the usage journal, if any.
	var usage *usage_store.Store
	if config.UsageDB != "" {
		usage, err = usage_store.Open(config.UsageDB)
		if err != nil {
			return err
		}
		defer usage.Close()
		if err := usage.Migrate(); err != nil {
			return err
		}
	}

	// Create a new bubbletea Model
	m := New(engine.New(config, usage), config.Opener, usage == nil)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// Create the list model
func create_list_model() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.Styles.NoItems = l.Styles.NoItems.Copy().PaddingLeft(2)
	return l
}

// Create the text input model
func create_text_input() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "query"
	ti.Prompt = "Search:"
	ti.PromptStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		MarginRight(1).
		MarginLeft(2).
		Padding(0, 1)
	ti.Focus()
	return ti
}
