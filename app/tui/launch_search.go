package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/knipferrc/teacup/code"
	"github.com/noelzubin/launch_search/logging"
	"github.com/noelzubin/launch_search/opener"
	"github.com/noelzubin/launch_search/search/engine"
	"github.com/noelzubin/launch_search/search/results"
	"github.com/samber/lo"
)

var (
	ListStyle   = lipgloss.NewStyle().MarginTop(1)
	StatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(2)
)

var log = logging.ForComponent(logging.CompUI)

// Main app model for bubbletea
type Model struct {
	ctx        context.Context    // cancelled on quit, stops a running crawl
	cancel     context.CancelFunc
	width      int                // width of terminal
	height     int                // height of terminal
	preview    *code.Bubble       // the preview widget model
	list       list.Model         // renders the viewport window
	textInput  textinput.Model    // the input search widget model
	engine     *engine.Engine     // owns the index and the query
	opener     opener.Opener      // for opening the selected path
	status     string             // last background event
	loading    bool               // a load or crawl is running
	saveOnQuit bool               // persist usage counts in the index file on exit
}

// Emitted when a background load or crawl finishes.
type SnapshotMsg struct {
	Snapshot *engine.Snapshot
	Err      error
}

// Create a new model for the app
func New(e *engine.Engine, openerCmd string, saveOnQuit bool) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		ctx:        ctx,
		cancel:     cancel,
		list:       create_list_model(),
		textInput:  create_text_input(),
		engine:     e,
		opener:     opener.Opener{OpenerCmd: openerCmd},
		status:     "loading index…",
		loading:    true,
		saveOnQuit: saveOnQuit,
	}
}

func (m *Model) setListSize() {
	width := m.width

	// If preview is open take half width
	if m.preview != nil {
		width = m.width / 2
	}

	// Default delegate rows are two lines plus a spacer.
	m.list.SetSize(width, results.ViewportSize*3)
}

func (m *Model) setPreviewSize() {
	if m.preview != nil {
		m.preview.SetSize(m.width/2, m.height-2)
	}
}

func (m *Model) updateSize(width, height int) {
	m.height = height
	m.width = width

	m.setListSize()
}

// load reads the index in the background, crawling when it is missing.
func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		s, err := m.engine.Open(m.ctx)
		return SnapshotMsg{s, err}
	}
}

// rebuild crawls every volume in the background.
func (m *Model) rebuild() tea.Cmd {
	return func() tea.Msg {
		s, err := m.engine.Rebuild(m.ctx)
		return SnapshotMsg{s, err}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load())
}

// refreshRows copies the viewport window into the list widget.
func (m *Model) refreshRows() tea.Cmd {
	v := m.engine.Viewport()
	width := m.list.Width()
	if width == 0 {
		width = 80
	}
	rows := makeRows(m.engine.Collator(), v.Items(), m.engine.Keywords(), width)
	cmd := m.list.SetItems(lo.Map(rows, func(r Row, _ int) list.Item { return r }))
	m.list.Select(v.Selection())
	return cmd
}

func (m *Model) selectedPath() (string, bool) {
	it := m.engine.Viewport().Selected()
	if it == nil {
		return "", false
	}
	return it.GetPath(), true
}

// resetQuery clears both the input and the engine query.
func (m *Model) resetQuery() {
	m.textInput.Reset()
	m.engine.ResetQuery()
}

func (m *Model) openPreview() tea.Cmd {
	path, ok := m.selectedPath()
	if !ok {
		return nil
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		m.status = "nothing to preview"
		return nil
	}
	codeModel := code.New(false, true, lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})
	codeModel.SetSize(m.width/2, m.height-2)
	m.preview = &codeModel
	return codeModel.SetFileName(path)
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	if m.saveOnQuit && !m.loading {
		if err := m.engine.Save(); err != nil {
			log.Error("save_on_quit_failed", "error", err)
		}
	}
	return tea.Quit
}

// The update fn for the bubbletea model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case SnapshotMsg:
		m.loading = false
		if msg.Err != nil {
			log.Error("index_load_failed", "error", msg.Err)
			m.status = fmt.Sprintf("index error: %v", msg.Err)
			break
		}
		m.engine.Swap(msg.Snapshot)
		m.status = fmt.Sprintf("%d entries from %s", len(msg.Snapshot.Records), msg.Snapshot.Source)
		cmds = append(cmds, m.refreshRows())
	case opener.OpenFinished:
		if msg.Err != nil {
			log.Warn("open_failed", "path", msg.Path, "error", msg.Err)
			m.status = fmt.Sprintf("open failed: %v", msg.Err)
		}
	case tea.KeyMsg:
		// Keybindings:
		// Up/Shift+Tab - move up in the results
		// Down/Tab - move down in the results
		// PgUp/PgDown - move a page
		// Left/Right - jump to the first/last result
		// Enter - open the selected path and count it as used
		// Ctrl+D - forget the selected favourite
		// Ctrl+P - preview the selected file
		// Esc - close preview
		// Ctrl+K/Ctrl+J - scroll the preview
		// Ctrl+R - re-crawl every volume in the background
		// F5 - reload the index file
		// Ctrl+C - quit the application
		v := m.engine.Viewport()
		switch msg.String() {
		case "up", "shift+tab":
			v.MoveUp()
			return m, m.refreshRows()
		case "down", "tab":
			v.MoveDown()
			return m, m.refreshRows()
		case "pgup":
			v.Move(-results.ViewportSize)
			return m, m.refreshRows()
		case "pgdown":
			v.Move(results.ViewportSize)
			return m, m.refreshRows()
		case "left":
			v.ResetItems(false)
			return m, m.refreshRows()
		case "right":
			v.ResetItems(true)
			return m, m.refreshRows()
		case "enter":
			if path, ok := m.selectedPath(); ok {
				m.engine.IncrementUses(path)
				m.resetQuery()
				return m, tea.Batch(m.opener.Open(path), m.refreshRows())
			}
			return m, nil
		case "ctrl+d":
			if path, ok := m.selectedPath(); ok {
				m.engine.ResetUses(path)
				m.resetQuery()
				m.status = "removed from favourites"
			}
			return m, m.refreshRows()
		case "ctrl+p":
			return m, m.openPreview()
		case "esc":
			m.preview = nil
			m.setListSize()
			return m, nil
		case "ctrl+k":
			if m.preview != nil {
				m.preview.Viewport.LineUp(5)
			}
			return m, nil
		case "ctrl+j":
			if m.preview != nil {
				m.preview.Viewport.LineDown(5)
			}
			return m, nil
		case "ctrl+r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.status = "crawling…"
			return m, m.rebuild()
		case "f5":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.status = "reloading…"
			return m, m.load()
		case "ctrl+c":
			return m, m.quit()
		}
	case tea.WindowSizeMsg:
		m.updateSize(msg.Width, msg.Height)
		cmds = append(cmds, m.refreshRows())
	}

	// Update the widgets sizes
	m.setListSize()
	m.setPreviewSize()

	// save to compare if changed
	oldValue := m.textInput.Value()

	// pass on message to the other components
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	m.opener, cmd = m.opener.Update(msg)
	cmds = append(cmds, cmd)

	if m.preview != nil {
		var newPreview code.Bubble
		newPreview, cmd = m.preview.Update(msg)
		cmds = append(cmds, cmd)
		m.preview = &newPreview
	}

	// If input has changed, filter for the new value
	if newValue := m.textInput.Value(); oldValue != newValue {
		m.engine.SetQuery(newValue)
		cmds = append(cmds, m.refreshRows())
	}

	return m, tea.Batch(cmds...)
}

func (m Model) statusLine() string {
	s := fmt.Sprintf("%d results", m.engine.Matches())
	if m.status != "" {
		s += " · " + m.status
	}
	return StatusStyle.Render(s)
}

// View fn for bubbletea model
func (m Model) View() string {
	listContent := ListStyle.Render(m.list.View())

	// render list
	innerContent := listContent

	// if preview then preview takes up half the width
	if m.preview != nil {
		innerContent = lipgloss.JoinHorizontal(lipgloss.Top,
			listContent,      // render list
			m.preview.View(), // render preview.
		)
	}

	// render the input box, the content and the status line
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.textInput.View(), // render the text input
		innerContent,       // render the main content
		m.statusLine(),     // render counts and background events
	)
}
