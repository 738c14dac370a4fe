package notifier

import (
	"log/slog"

	"github.com/aarambh-bootcamp/registration-api/internal/forms"
	"github.com/aarambh-bootcamp/registration-api/internal/models"
)

// Notifier delivers a side-channel message for an accepted registration.
type Notifier interface {
	NotifyRegistration(reg models.Registration, schema forms.Schema) error
}

// Dispatch runs every notifier in the background. It is called after the
// registration is committed; failures are logged and never reach the
// submitter.
func Dispatch(reg models.Registration, schema forms.Schema, notifiers ...Notifier) {
	go func() {
		for _, n := range notifiers {
			if n == nil {
				continue
			}
			if err := n.NotifyRegistration(reg, schema); err != nil {
				slog.Error("registration notification failed",
					"registration_id", reg.ID, "error", err)
			}
		}
	}()
}

// answerLines renders the answered fields as "Label: value" lines in schema
// order, shared by the email and Discord messages.
func answerLines(reg models.Registration, schema forms.Schema) []string {
	var lines []string
	for _, f := range schema {
		raw, ok := reg.Answers[f.Name]
		if !ok {
			continue
		}
		label := f.Label
		if label == "" {
			label = f.Name
		}
		switch v := raw.(type) {
		case []string:
			for _, item := range v {
				lines = append(lines, label+": "+item)
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					lines = append(lines, label+": "+s)
				}
			}
		case string:
			lines = append(lines, label+": "+v)
		}
	}
	return lines
}
