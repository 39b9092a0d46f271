package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"footfit/internal/common/aws"
	"footfit/internal/common/metrics"
	"footfit/internal/models"
)

var (
	ErrSMSDisabled  = errors.New("sms export is disabled")
	ErrInvalidPhone = errors.New("phone number must be in E.164 form")
	e164            = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)
)

// SMSLimit caps the message body in bytes.
const SMSLimit = 320

// SMS renders the short export used for text messages: brand, tip and a
// one-line disclaimer. The full profile is left to the e-mail and download.
func SMS(p models.UserProfile, rec models.Recommendation) string {
	var b strings.Builder
	b.WriteString("FootFit: ")
	b.WriteString(rec.Brand)
	if p.FootwearPreference != "" {
		b.WriteString(" (")
		b.WriteString(string(p.FootwearPreference))
		b.WriteString(")")
	}
	b.WriteString(". ")
	b.WriteString(rec.Tip)
	b.WriteString(" Not a medical diagnostic.")

	out := b.String()
	if len(out) > SMSLimit {
		out = strings.ToValidUTF8(out[:SMSLimit-3], "") + "..."
	}
	return out
}

// Texter sends the short export as an SMS through Amazon SNS.
type Texter struct {
	client   aws.SNSAPI
	senderID string
	enabled  bool
}

func NewTexter(client aws.SNSAPI, senderID string, enabled bool) *Texter {
	return &Texter{client: client, senderID: senderID, enabled: enabled && client != nil}
}

func (t *Texter) Enabled() bool {
	return t != nil && t.enabled
}

func (t *Texter) Send(ctx context.Context, phone string, p models.UserProfile, rec models.Recommendation) error {
	if !t.Enabled() {
		metrics.ExportsSent.WithLabelValues("sms", "disabled").Inc()
		return ErrSMSDisabled
	}
	phone = strings.ReplaceAll(phone, " ", "")
	if !e164.MatchString(phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	if _, err := t.client.Publish(ctx, aws.DirectSMS(phone, t.senderID, SMS(p, rec))); err != nil {
		metrics.ExportsSent.WithLabelValues("sms", "failed").Inc()
		return fmt.Errorf("sns publish: %w", err)
	}
	metrics.ExportsSent.WithLabelValues("sms", "sent").Inc()
	return nil
}
