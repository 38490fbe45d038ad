package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Constants ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q")
}

func isForceQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isSearchFocus(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+k", "/")
}

func isUp(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "up") || (vim && isKey(msg, "k"))
}

func isDown(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "down") || (vim && isKey(msg, "j"))
}

func isLeft(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "left") || (vim && isKey(msg, "h"))
}

func isRight(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "right") || (vim && isKey(msg, "l"))
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isSpace(msg tea.KeyMsg) bool {
	return isKey(msg, " ", "space")
}

func isFocusSwitch(msg tea.KeyMsg) bool {
	return isKey(msg, "tab", "shift+tab")
}

// categoryIndex maps the digit keys 1-9 to a zero-based category index.
func categoryIndex(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}
