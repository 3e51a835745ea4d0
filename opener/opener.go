package opener

import (
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type Opener struct {
	Opening   bool   // Is the opener running
	OpenerCmd string // Command, with optional arguments, the path is appended to
}

// OpenFinished is sent once the opener exits.
type OpenFinished struct {
	Path string
	Err  error
}

// command builds the process for openerCmd with path as the last argument.
func command(openerCmd, path string) *exec.Cmd {
	fields := strings.Fields(openerCmd)
	if len(fields) == 0 {
		return nil
	}
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...)
}

// this hands the terminal to the opener until it exits.
func openPath(openerCmd, path string) tea.Cmd {
	cmd := command(openerCmd, path)
	if cmd == nil {
		return func() tea.Msg {
			return OpenFinished{Path: path, Err: exec.ErrNotFound}
		}
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return OpenFinished{Path: path, Err: err}
	})
}

func (m *Opener) Init() tea.Cmd {
	return nil
}

func (m *Opener) Open(path string) tea.Cmd {
	m.Opening = true
	return openPath(m.OpenerCmd, path)
}

func (m Opener) Update(msg tea.Msg) (Opener, tea.Cmd) {
	switch msg.(type) {
	case OpenFinished:
		m.Opening = false
	}
	return m, nil
}

// Doesnt render anything
func (m Opener) View() string {
	return ""
}
