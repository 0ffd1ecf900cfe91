package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/linkfolio/internal/client/client"
	"github.com/stretchr/testify/assert"
)

func TestGetStatus(t *testing.T) {
	a := &App{}
	assert.Equal(t, "", a.getStatus())

	a.session = liveSession()
	assert.Equal(t, "(@ann)", a.getStatus())
}

func TestExec(t *testing.T) {
	a, out := newTestApp(&fakeAPI{}, &memSessions{}, "")

	assert.False(t, a.Exec(context.Background(), "   "))
	assert.False(t, a.Exec(context.Background(), "frobnicate"))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")

	assert.False(t, a.Exec(context.Background(), "whoami"))
	assert.Contains(t, out.String(), "Error: "+client.ErrNotSignedIn.Error())

	assert.True(t, a.Exec(context.Background(), "exit"))
}

func TestRoot_RunsUntilExit(t *testing.T) {
	api := &fakeAPI{page: &client.DirectoryPage{}}
	a, out := newTestApp(api, &memSessions{}, "help\nsearch bo\nexit\nsearch never\n")

	a.Root(context.Background())

	assert.Contains(t, out.String(), "Available commands: register, login")
	assert.Equal(t, "bo", api.searchTerm)
	assert.Contains(t, out.String(), "Bye!")
}

func TestRoot_StopsOnEOF(t *testing.T) {
	api := &fakeAPI{page: &client.DirectoryPage{}}
	a, _ := newTestApp(api, &memSessions{}, "search last")

	a.Root(context.Background())
	assert.Equal(t, "last", api.searchTerm)
}

func TestRun_RestoresSession(t *testing.T) {
	closed := false
	a, out := newTestApp(&fakeAPI{}, &memSessions{s: liveSession()}, "exit\n")
	a.close = func() error { closed = true; return nil }

	a.Run(context.Background())

	assert.True(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "linkctl (@ann)> ")
	assert.True(t, closed)
}
