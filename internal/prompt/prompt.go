// Package prompt asks the user for single lines of text and yes/no
// answers. On a terminal it runs a small bubbletea line editor with emacs
// or vi bindings; otherwise it reads plain lines.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the user aborts a prompt (Ctrl+C, or end
// of input).
var ErrInterrupted = errors.New("input interrupted")

// Prompter asks questions. Label is shown without a trailing colon; initial
// is the pre-filled answer.
type Prompter interface {
	Ask(label, initial string) (string, error)
	Confirm(question string) (bool, error)
}

// New returns a terminal prompter when in is a terminal, a line prompter
// otherwise.
func New(in *os.File, out io.Writer, vi bool) Prompter {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &Terminal{in: in, out: out, vi: vi}
	}
	return NewLine(in, out)
}

// Terminal prompts with an interactive line editor.
type Terminal struct {
	in  io.Reader
	out io.Writer
	vi  bool
}

func (p *Terminal) Ask(label, initial string) (string, error) {
	final, err := tea.NewProgram(NewInput(label, initial, p.vi),
		tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(InputModel)
	if !ok || m.Canceled() {
		return "", ErrInterrupted
	}
	return m.Value(), nil
}

func (p *Terminal) Confirm(question string) (bool, error) {
	final, err := tea.NewProgram(NewConfirm(question),
		tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ConfirmModel)
	if !ok || m.Canceled() {
		return false, ErrInterrupted
	}
	return m.Confirmed(), nil
}

// Line prompts by reading whole lines, for piped or redirected input.
type Line struct {
	r   *bufio.Reader
	out io.Writer
}

// NewLine creates a line prompter reading from in.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{r: bufio.NewReader(in), out: out}
}

func (p *Line) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrInterrupted
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask returns initial when the user enters an empty line.
func (p *Line) Ask(label, initial string) (string, error) {
	if initial != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, initial)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return initial, nil
	}
	return line, nil
}

// Confirm repeats the question until the answer is y or n.
func (p *Line) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s (y/n): ", question)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
	}
}
