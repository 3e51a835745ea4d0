package opener

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandAppendsPath(t *testing.T) {
	cmd := command("code --reuse-window", "/home/me/My Notes/a.md")
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"code", "--reuse-window", "/home/me/My Notes/a.md"}, cmd.Args)

	cmd = command("xdg-open", "/tmp/x")
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"xdg-open", "/tmp/x"}, cmd.Args)

	assert.Nil(t, command("   ", "/tmp/x"))
}

func TestOpenWithoutCommandReportsError(t *testing.T) {
	m := &Opener{}
	cmd := m.Open("/tmp/x")
	assert.True(t, m.Opening)

	msg := cmd()
	finished, ok := msg.(OpenFinished)
	require.True(t, ok)
	assert.Equal(t, "/tmp/x", finished.Path)
	assert.ErrorIs(t, finished.Err, exec.ErrNotFound)

	next, _ := m.Update(finished)
	assert.False(t, next.Opening)
}
