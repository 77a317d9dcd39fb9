package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/timeweave/pkg/timeline"
)

func pickerIdentities() []*timeline.Identity {
	return []*timeline.Identity{
		{ID: "ada", Name: "Ada Lovelace", Born: timeline.MustParseEvent("1815-12-10")},
		{ID: "byron", Name: "Lord Byron"},
		{ID: "london", Kind: timeline.KindLocation},
	}
}

func press(m OriginPickerModel, keys ...tea.KeyMsg) OriginPickerModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(OriginPickerModel)
	}
	return m
}

func TestOriginPickerNavigate(t *testing.T) {
	m := NewOriginPickerModel(pickerIdentities())
	m = press(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyUp},
	)
	assert.Equal(t, 1, m.Cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if assert.NotNil(t, m.Selected) {
		assert.Equal(t, "byron", m.Selected.ID)
	}
}

func TestOriginPickerFilter(t *testing.T) {
	m := NewOriginPickerModel(pickerIdentities())
	m = press(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("lon")},
	)
	assert.Equal(t, 0, m.Cursor, "filtering resets the cursor")
	assert.Len(t, m.visible(), 1)

	view := m.View()
	assert.Contains(t, view, "london")
	assert.NotContains(t, view, "Lord Byron")

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "l", m.Filter)
	assert.Len(t, m.visible(), 3, "ada, byron and london all contain an l")
}

func TestOriginPickerQuit(t *testing.T) {
	m := NewOriginPickerModel(pickerIdentities())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)

	empty := press(NewOriginPickerModel(pickerIdentities()), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	empty = press(empty, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, empty.Selected)
	assert.True(t, strings.Contains(empty.View(), "[0/0]"))
}
