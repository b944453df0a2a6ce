package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitflow/admitflow/internal/screen"
)

type fakeScreen struct {
	title     string
	inits     int
	refreshes int
	seen      []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd { s.inits++; return nil }
func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *fakeScreen) View(int, int) string { return "view of " + s.title }
func (s *fakeScreen) Title() string        { return s.title }

// refreshingScreen reloads when revealed, like the subjects screen.
type refreshingScreen struct{ fakeScreen }

func (s *refreshingScreen) Refresh() tea.Cmd { s.refreshes++; return nil }

func TestPushPop(t *testing.T) {
	subjects := &refreshingScreen{fakeScreen{title: "Subjects"}}
	r := New(subjects)
	level := &fakeScreen{title: "Physics · Easy"}

	r.Push(level)
	assert.Equal(t, 2, r.Depth())
	assert.Same(t, level, r.Active())
	assert.Equal(t, 1, level.inits)
	assert.Equal(t, []string{"Subjects", "Physics · Easy"}, r.Titles())

	r.Pop()
	assert.Same(t, subjects, r.Active())
	assert.Equal(t, 1, subjects.refreshes)

	assert.Nil(t, r.Pop())
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, 1, subjects.refreshes, "popping the root is a no-op")
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&fakeScreen{})
	r.Push(&fakeScreen{title: "Mathematics · Easy"})

	next := &fakeScreen{title: "Mathematics · Medium"}
	r.Replace(next)

	assert.Equal(t, 2, r.Depth())
	assert.Same(t, next, r.Active())
	assert.Equal(t, 1, next.inits)
	assert.Equal(t, []string{"Mathematics · Medium"}, r.Titles(), "empty titles are skipped")
}

func TestUpdateRoutesMessages(t *testing.T) {
	root := &refreshingScreen{fakeScreen{title: "Subjects"}}
	r := New(root)
	level := &fakeScreen{title: "Chemistry · Hard"}

	r.Update(PushCmd(level)())
	require.Same(t, level, r.Active())

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Len(t, level.seen, 1)
	assert.Empty(t, root.seen)
	assert.Equal(t, "view of Chemistry · Hard", r.View(80, 24))

	r.Update(PopCmd()())
	assert.Same(t, root, r.Active())
	assert.Equal(t, 1, root.refreshes)

	welcome := &fakeScreen{}
	r.Update(ReplaceScreenMsg{Screen: welcome})
	assert.Same(t, welcome, r.Active())
}
