package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yolodolo42/testwallet/internal/wallet"
	"golang.org/x/term"
)

const (
	choiceConfirm = "confirm"
	choiceCancel  = "cancel"
)

var ErrNotInteractive = errors.New("confirmation needs an interactive terminal")

// ConfirmModel asks the user to approve a single wallet request.
type ConfirmModel struct {
	req      wallet.Request
	selector Selector
}

// NewConfirmModel creates the prompt for req
func NewConfirmModel(req wallet.Request) ConfirmModel {
	return ConfirmModel{
		req: req,
		selector: NewSelector("", []SelectorItem{
			{ID: choiceConfirm, Label: "Confirm"},
			{ID: choiceCancel, Label: "Cancel"},
		}),
	}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Approve):
			m.selector.Choose(choiceConfirm)
		case key.Matches(msg, keys.Deny):
			m.selector.Choose(choiceCancel)
		default:
			m.selector.Update(msg)
		}
	}

	if !m.selector.Active() {
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if !m.selector.Active() {
		if m.Approved() {
			return SuccessStyle.Render(SymbolCheck+" "+m.summary()) + "\n"
		}
		return ErrorStyle.Render(SymbolCross+" "+m.summary()) + "\n"
	}

	var b strings.Builder
	if m.req.Title != "" {
		b.WriteString(TitleStyle.Render(m.req.Title))
		b.WriteString("\n")
	}
	if m.req.Message != "" {
		b.WriteString(MessageStyle.Render(m.req.Message))
		b.WriteString("\n\n")
	}
	b.WriteString(m.selector.View())
	b.WriteString(HelpStyle.Render("y confirm • n/esc cancel • enter select"))
	b.WriteString("\n")
	return b.String()
}

// Approved reports whether the user picked Confirm
func (m ConfirmModel) Approved() bool {
	return m.selector.Selected() == choiceConfirm
}

// Done reports whether the user answered
func (m ConfirmModel) Done() bool {
	return !m.selector.Active()
}

func (m ConfirmModel) summary() string {
	first, _, _ := strings.Cut(m.req.Message, "\n")
	return strings.TrimSuffix(strings.TrimSpace(first), ":")
}

// TerminalConfirmer shows a ConfirmModel for every request. Nil In/Out
// default to stdin/stdout.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

var _ wallet.Confirmer = (*TerminalConfirmer)(nil)

func (c *TerminalConfirmer) Confirm(ctx context.Context, req wallet.Request) (bool, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.In != nil {
		opts = append(opts, tea.WithInput(c.In))
	}
	if c.Out != nil {
		opts = append(opts, tea.WithOutput(c.Out))
	}

	final, err := tea.NewProgram(NewConfirmModel(req), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("confirm prompt: %w", err)
	}

	m, ok := final.(ConfirmModel)
	if !ok {
		return false, fmt.Errorf("confirm prompt: unexpected model %T", final)
	}
	return m.Approved(), nil
}

// IsInteractive returns true if stdin is a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
