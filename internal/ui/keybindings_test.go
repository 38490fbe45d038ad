package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(runeKey('q')))
	assert.False(t, isQuit(runeKey('a')))
	assert.True(t, isForceQuit(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.False(t, isForceQuit(runeKey('q')))
}

func TestIsEnter(t *testing.T) {
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.False(t, isEnter(tea.KeyMsg{Type: tea.KeySpace}))
}

func TestIsSpace(t *testing.T) {
	assert.True(t, isSpace(tea.KeyMsg{Type: tea.KeySpace}))
	assert.False(t, isSpace(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsBack(t *testing.T) {
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, isBack(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsSearchFocus(t *testing.T) {
	assert.True(t, isSearchFocus(tea.KeyMsg{Type: tea.KeyCtrlK}))
	assert.True(t, isSearchFocus(runeKey('/')))
	assert.False(t, isSearchFocus(runeKey('k')))
}

func TestArrowKeysWithoutVim(t *testing.T) {
	assert.True(t, isDown(tea.KeyMsg{Type: tea.KeyDown}, false))
	assert.False(t, isDown(tea.KeyMsg{Type: tea.KeyUp}, false))
	assert.False(t, isDown(runeKey('j'), false))
	assert.True(t, isUp(tea.KeyMsg{Type: tea.KeyUp}, false))
	assert.False(t, isUp(runeKey('k'), false))
	assert.True(t, isLeft(tea.KeyMsg{Type: tea.KeyLeft}, false))
	assert.False(t, isLeft(runeKey('h'), false))
	assert.True(t, isRight(tea.KeyMsg{Type: tea.KeyRight}, false))
	assert.False(t, isRight(runeKey('l'), false))
}

func TestArrowKeysWithVim(t *testing.T) {
	assert.True(t, isDown(runeKey('j'), true))
	assert.True(t, isUp(runeKey('k'), true))
	assert.True(t, isLeft(runeKey('h'), true))
	assert.True(t, isRight(runeKey('l'), true))
}

func TestCategoryIndex(t *testing.T) {
	idx, ok := categoryIndex(runeKey('1'))
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = categoryIndex(runeKey('9'))
	assert.True(t, ok)
	assert.Equal(t, 8, idx)

	_, ok = categoryIndex(runeKey('0'))
	assert.False(t, ok)
	_, ok = categoryIndex(runeKey('a'))
	assert.False(t, ok)
}

func TestIsKey(t *testing.T) {
	assert.True(t, isKey(runeKey('s'), "s"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyBackspace}, "backspace"))
	assert.False(t, isKey(runeKey('a'), "b", "c"))
}
