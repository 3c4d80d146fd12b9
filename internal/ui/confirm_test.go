package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/yolodolo42/testwallet/internal/wallet"
)

func press(m tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var signReq = wallet.Request{
	Action:  wallet.ActionSignMessage,
	Title:   "Approval request",
	Message: "Sign Message: \nhello",
}

func TestConfirmModel(t *testing.T) {
	t.Run("renders request", func(t *testing.T) {
		m := NewConfirmModel(signReq)
		view := m.View()
		assert.Contains(t, view, "Approval request")
		assert.Contains(t, view, "hello")
		assert.Contains(t, view, "Confirm")
		assert.Contains(t, view, "Cancel")
		assert.False(t, m.Done())
	})

	t.Run("enter on first item confirms", func(t *testing.T) {
		final, cmd := press(NewConfirmModel(signReq), tea.KeyMsg{Type: tea.KeyEnter})
		m := final.(ConfirmModel)
		assert.True(t, m.Done())
		assert.True(t, m.Approved())
		assert.NotNil(t, cmd)
		assert.Contains(t, m.View(), "Sign Message")
	})

	t.Run("down then enter cancels", func(t *testing.T) {
		final, _ := press(NewConfirmModel(signReq), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
		m := final.(ConfirmModel)
		assert.True(t, m.Done())
		assert.False(t, m.Approved())
	})

	t.Run("y and n shortcuts", func(t *testing.T) {
		final, _ := press(NewConfirmModel(signReq), runeKey('y'))
		assert.True(t, final.(ConfirmModel).Approved())

		final, _ = press(NewConfirmModel(signReq), runeKey('n'))
		assert.True(t, final.(ConfirmModel).Done())
		assert.False(t, final.(ConfirmModel).Approved())
	})

	t.Run("esc cancels", func(t *testing.T) {
		final, cmd := press(NewConfirmModel(signReq), tea.KeyMsg{Type: tea.KeyEsc})
		m := final.(ConfirmModel)
		assert.True(t, m.Done())
		assert.False(t, m.Approved())
		assert.NotNil(t, cmd)
	})

	t.Run("ignores input after answer", func(t *testing.T) {
		final, _ := press(NewConfirmModel(signReq), runeKey('n'), runeKey('y'))
		assert.False(t, final.(ConfirmModel).Approved())
	})
}

func TestSelector(t *testing.T) {
	s := NewSelector("Pick", []SelectorItem{{ID: "a"}, {ID: "b", Label: "Bee", Description: "second"}})
	assert.Contains(t, s.View(), "Pick")
	assert.Contains(t, s.View(), "Bee")
	assert.Equal(t, "", s.Selected())

	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "b", s.Selected())
	assert.Equal(t, "", s.View())

	c := NewSelector("Pick", []SelectorItem{{ID: "a"}})
	c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, c.Cancelled())
	assert.Equal(t, "", c.Selected())
}
