package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const (
	callbackLinePrefix = "cb:"
	botSpeaker         = "The bot"
)

type simulateOptions struct {
	sender   int64
	chat     int64
	text     string
	callback string
	asJSON   bool
}

type replyOutput struct {
	Chat     int64  `json:"chat"`
	Text     string `json:"text"`
	Keyboard string `json:"keyboard,omitempty"`
	Persona  string `json:"persona,omitempty"`
	Alert    bool   `json:"alert,omitempty"`
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run inbound events through the bot locally",
		Long: "simulate sends one event built from --text or --callback through the router and prints the replies. " +
			"Without either flag it reads one event per stdin line; lines starting with \"cb:\" are callback tokens. " +
			"Conversation state lives for the duration of the command.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.text != "" && opts.callback != "" {
				return errors.New("use either --text or --callback, not both")
			}

			app, err := root.wire(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			events, err := simulatedEvents(cmd.InOrStdin(), opts)
			if err != nil {
				return err
			}

			for _, event := range events {
				speaker := botSpeaker
				if session := app.sessions.Current(event.Sender); session.InConversation() && session.Persona != nil {
					speaker = session.Persona.Name
				}

				replies, err := awaitReplies(cmd.Context(), cmd.ErrOrStderr(), speaker, func(ctx context.Context) []domain.Reply {
					return app.router.Handle(ctx, event)
				})
				if err != nil {
					return err
				}

				if err := writeReplies(cmd.OutOrStdout(), replies, opts.asJSON); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.sender, "sender", 0, "sender identity")
	cmd.Flags().Int64Var(&opts.chat, "chat", 0, "chat id (defaults to the sender)")
	cmd.Flags().StringVar(&opts.text, "text", "", "message text")
	cmd.Flags().StringVar(&opts.callback, "callback", "", "callback token")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print replies as JSON lines")
	_ = cmd.MarkFlagRequired("sender")

	return cmd
}

type repliesMsg []domain.Reply

// typingModel shows who is composing the answer to one simulated event
// and, once done, who answered.
type typingModel struct {
	spinner spinner.Model
	speaker string
	handle  tea.Cmd
	replies []domain.Reply
	done    bool
}

func (m typingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.handle)
}

func (m typingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case repliesMsg:
		m.done = true
		m.replies = msg
		for _, reply := range msg {
			if reply.Persona != nil {
				m.speaker = reply.Persona.Name
				break
			}
		}
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m typingModel) View() string {
	if !m.done {
		if m.speaker == botSpeaker {
			return fmt.Sprintf("%s Waiting for the bot...", m.spinner.View())
		}
		return fmt.Sprintf("%s %s is typing...", m.spinner.View(), m.speaker)
	}

	switch len(m.replies) {
	case 0:
		return fmt.Sprintf("%s stayed silent\n", m.speaker)
	case 1:
		return fmt.Sprintf("%s answered with 1 message\n", m.speaker)
	default:
		return fmt.Sprintf("%s answered with %d messages\n", m.speaker, len(m.replies))
	}
}

// awaitReplies runs handle while a typing indicator for speaker is shown
// on output.
func awaitReplies(ctx context.Context, output io.Writer, speaker string, handle func(context.Context) []domain.Reply) ([]domain.Reply, error) {
	model := typingModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		speaker: speaker,
		handle: func() tea.Msg {
			return repliesMsg(handle(ctx))
		},
	}

	p := tea.NewProgram(model, tea.WithInput(nil), tea.WithOutput(output), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run typing indicator: %w", err)
	}

	result, ok := final.(typingModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type %T", final)
	}
	return result.replies, nil
}

func simulatedEvents(input io.Reader, opts *simulateOptions) ([]domain.InboundEvent, error) {
	chat := opts.chat
	if chat == 0 {
		chat = opts.sender
	}
	base := domain.InboundEvent{Sender: domain.Identity(opts.sender), Chat: domain.ChatID(chat)}

	switch {
	case opts.text != "":
		base.Text = opts.text
		return []domain.InboundEvent{base}, nil
	case opts.callback != "":
		base.CallbackToken = opts.callback
		return []domain.InboundEvent{base}, nil
	}

	var events []domain.InboundEvent
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		event := base
		if token, ok := strings.CutPrefix(line, callbackLinePrefix); ok {
			event.CallbackToken = strings.TrimSpace(token)
		} else {
			event.Text = line
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	if len(events) == 0 {
		return nil, errors.New("no events: pass --text, --callback or lines on stdin")
	}

	return events, nil
}

func writeReplies(w io.Writer, replies []domain.Reply, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, reply := range replies {
			out := replyOutput{
				Chat:     int64(reply.Chat),
				Text:     reply.Text,
				Keyboard: string(reply.Keyboard),
				Alert:    reply.Alert,
			}
			if reply.Persona != nil {
				out.Persona = reply.Persona.Name
			}
			if err := enc.Encode(out); err != nil {
				return err
			}
		}
		return nil
	}

	for _, reply := range replies {
		prefix := ""
		if reply.Alert {
			prefix = "(alert) "
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, reply.Text); err != nil {
			return err
		}
		if reply.Keyboard != domain.KeyboardNone {
			if _, err := fmt.Fprintf(w, "[keyboard: %s]\n", reply.Keyboard); err != nil {
				return err
			}
		}
	}

	return nil
}
