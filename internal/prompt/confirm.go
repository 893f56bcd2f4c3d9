package prompt

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/audiotag/internal/ui/styles"
)

// ConfirmModel asks a yes/no question. Only y/Y/n/N answer it; Ctrl+C
// cancels.
type ConfirmModel struct {
	question  string
	answered  bool
	confirmed bool
	canceled  bool
}

// NewConfirm creates a confirmation for question.
func NewConfirm(question string) ConfirmModel {
	return ConfirmModel{question: question}
}

// Confirmed reports whether the user answered yes.
func (m ConfirmModel) Confirmed() bool { return m.confirmed }

// Answered reports whether the user answered at all.
func (m ConfirmModel) Answered() bool { return m.answered }

// Canceled reports whether the user aborted the prompt.
func (m ConfirmModel) Canceled() bool { return m.canceled }

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.answered, m.confirmed = true, true
		return m, tea.Quit
	case "n", "N":
		m.answered, m.confirmed = true, false
		return m, tea.Quit
	case "ctrl+c":
		m.canceled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	s := styles.T().S()
	if m.answered {
		answer := "n"
		if m.confirmed {
			answer = "y"
		}
		return m.question + " " + answer + "\n"
	}
	if m.canceled {
		return m.question + "\n"
	}
	return m.question + " " + s.Subtle.Render("(y/n)")
}
