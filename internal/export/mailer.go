package export

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"footfit/internal/common/aws"
	"footfit/internal/common/metrics"
	"footfit/internal/models"
)

var (
	ErrMailerDisabled   = errors.New("e-mail export is disabled")
	ErrInvalidRecipient = errors.New("invalid recipient address")
)

const Subject = "Your FootFit recommendation"

// Mailer sends the text export through Amazon SES.
type Mailer struct {
	client  aws.SESAPI
	from    string
	enabled bool
}

// NewMailer returns a mailer. A nil client or enabled=false yields a mailer
// whose Send always returns ErrMailerDisabled.
func NewMailer(client aws.SESAPI, from string, enabled bool) *Mailer {
	return &Mailer{client: client, from: from, enabled: enabled && client != nil}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.enabled
}

// Send e-mails the export of p and rec to the given address.
func (m *Mailer) Send(ctx context.Context, to string, p models.UserProfile, rec models.Recommendation) error {
	if !m.Enabled() {
		metrics.ExportsSent.WithLabelValues("email", "disabled").Inc()
		return ErrMailerDisabled
	}
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}

	if _, err := m.client.SendEmail(ctx, aws.TextEmail(m.from, addr.Address, Subject, Text(p, rec))); err != nil {
		metrics.ExportsSent.WithLabelValues("email", "failed").Inc()
		return fmt.Errorf("ses send: %w", err)
	}
	metrics.ExportsSent.WithLabelValues("email", "sent").Inc()
	return nil
}
