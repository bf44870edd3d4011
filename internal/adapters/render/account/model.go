package account

import (
	"errors"
	"io"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	accounts []domain.AccountRecord
	opts     RenderOptions
	styles   styles
	output   string
}

func newModel(accounts []domain.AccountRecord, opts RenderOptions) model {
	return model{
		accounts: accounts,
		opts:     opts,
		styles:   newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.accounts, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws account cards through a headless bubbletea program.
func Render(accounts []domain.AccountRecord, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(accounts, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
