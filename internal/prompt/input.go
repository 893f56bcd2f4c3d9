package prompt

import (
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/audiotag/internal/ui/styles"
)

// InputModel is a single-line editor. Emacs bindings come from
// bubbles/textinput; with vi enabled, Esc switches to a normal mode with
// basic motions (h l 0 $ w b) and edits (x D i a I A S).
type InputModel struct {
	input    textinput.Model
	label    string
	vi       bool
	normal   bool
	done     bool
	canceled bool
}

// NewInput creates an editor pre-filled with initial.
func NewInput(label, initial string, vi bool) InputModel {
	ti := textinput.New()
	ti.Prompt = label + ": "
	ti.PromptStyle = styles.T().S().Key
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	return InputModel{input: ti, label: label, vi: vi}
}

// Value returns the current text.
func (m InputModel) Value() string { return m.input.Value() }

// Canceled reports whether the user aborted the prompt.
func (m InputModel) Canceled() bool { return m.canceled }

// Normal reports whether the editor is in vi normal mode.
func (m InputModel) Normal() bool { return m.normal }

// Position returns the cursor position in runes.
func (m InputModel) Position() int { return m.input.Position() }

func (m InputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC:
		m.canceled = true
		return m, tea.Quit
	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.canceled = true
			return m, tea.Quit
		}
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyEsc:
		if m.vi && !m.normal {
			m.normal = true
			m.input.SetCursor(m.input.Position() - 1)
			return m, nil
		}
	}

	if m.normal {
		m.handleNormalKey(keyMsg.String())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	return m, cmd
}

func (m *InputModel) handleNormalKey(key string) {
	runes := []rune(m.input.Value())
	pos := m.input.Position()

	switch key {
	case "h", "left":
		m.input.SetCursor(pos - 1)
	case "l", "right":
		if pos < len(runes)-1 {
			m.input.SetCursor(pos + 1)
		}
	case "0", "home":
		m.input.CursorStart()
	case "$", "end":
		m.input.SetCursor(len(runes) - 1)
	case "w":
		m.input.SetCursor(nextWord(runes, pos))
	case "b":
		m.input.SetCursor(prevWord(runes, pos))
	case "x":
		if pos < len(runes) {
			runes = append(runes[:pos], runes[pos+1:]...)
			m.input.SetValue(string(runes))
			m.input.SetCursor(min(pos, len(runes)-1))
		}
	case "D":
		m.input.SetValue(string(runes[:pos]))
		m.input.SetCursor(pos - 1)
	case "i":
		m.normal = false
	case "a":
		m.input.SetCursor(pos + 1)
		m.normal = false
	case "I":
		m.input.CursorStart()
		m.normal = false
	case "A":
		m.input.CursorEnd()
		m.normal = false
	case "S":
		m.input.SetValue("")
		m.normal = false
	}
}

func nextWord(runes []rune, pos int) int {
	i := pos
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	if i >= len(runes) {
		return max(len(runes)-1, 0)
	}
	return i
}

func prevWord(runes []rune, pos int) int {
	i := pos - 1
	for i > 0 && unicode.IsSpace(runes[i]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return max(i, 0)
}

func (m InputModel) View() string {
	if m.done || m.canceled {
		return styles.T().S().Key.Render(m.input.Prompt) + m.input.Value() + "\n"
	}
	return m.input.View()
}
