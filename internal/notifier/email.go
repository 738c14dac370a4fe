package notifier

import (
	"fmt"
	"strings"

	"github.com/aarambh-bootcamp/registration-api/internal/config"
	"github.com/aarambh-bootcamp/registration-api/internal/forms"
	"github.com/aarambh-bootcamp/registration-api/internal/models"
	gomail "gopkg.in/gomail.v2"
)

// EmailNotifier sends the confirmation email to the registrant.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
	title  string
}

// NewEmailNotifier returns nil when SMTP is not configured; Dispatch skips
// nil notifiers.
func NewEmailNotifier(cfg *config.Config, bootcampTitle string) *EmailNotifier {
	if cfg.SMTPHost == "" {
		return nil
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   from,
		title:  bootcampTitle,
	}
}

func (n *EmailNotifier) NotifyRegistration(reg models.Registration, schema forms.Schema) error {
	if reg.Email == nil || *reg.Email == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi,\n\nThank you for registering for %s!\n\n", n.title)
	b.WriteString("Your registration details:\n")
	for _, line := range answerLines(reg, schema) {
		b.WriteString("  " + line + "\n")
	}
	fmt.Fprintf(&b, "\nYour registration is %s. We will be in touch with further details.\n", reg.Status)

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", *reg.Email)
	m.SetHeader("Subject", fmt.Sprintf("Registration Confirmed - %s", n.title))
	m.SetBody("text/plain", b.String())

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}
