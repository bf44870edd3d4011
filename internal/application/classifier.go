package application

import (
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

// Classifier turns raw inbound events into typed events.
type Classifier struct {
	labels ButtonLabels
}

func NewClassifier(labels ButtonLabels) *Classifier {
	if labels == nil {
		labels = DefaultButtonLabels()
	}

	return &Classifier{labels: labels}
}

func (c *Classifier) Classify(in domain.InboundEvent) domain.Event {
	event := domain.Event{Sender: in.Sender, Chat: in.Chat}

	if token := strings.TrimSpace(in.CallbackToken); token != "" {
		event.Kind = domain.EventCallbackToken
		event.Callback = domain.CallbackToken(token)
		return event
	}

	text := strings.TrimSpace(in.Text)
	if strings.HasPrefix(text, "/") {
		fields := strings.Fields(text)
		command := strings.TrimPrefix(fields[0], "/")
		if at := strings.IndexByte(command, '@'); at >= 0 {
			command = command[:at]
		}
		if command != "" {
			event.Kind = domain.EventCommand
			event.Command = strings.ToLower(command)
			event.Args = fields[1:]
			return event
		}
	}

	if button, ok := c.labels[text]; ok {
		event.Kind = domain.EventButtonPress
		event.Button = button
		return event
	}

	event.Kind = domain.EventFreeText
	event.Text = in.Text
	return event
}
