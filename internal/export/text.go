// Package export renders a finished recommendation for download, e-mail or SMS.
// It only reads the profile and recommendation it is handed.
package export

import (
	"strings"

	"footfit/internal/models"
)

const (
	CareNote = "Care note: replace running and training shoes every 500-800 km, " +
		"and re-check fit when your weight or activity changes."
	Disclaimer = "This tool provides heuristic footwear guidance for personal selection. " +
		"It is not a medical diagnostic."
)

const bullet = "• "

// Text renders the summary block: the six answers, the recommendation, the
// care note and the disclaimer.
func Text(p models.UserProfile, rec models.Recommendation) string {
	var b strings.Builder

	b.WriteString("FootFit recommendation\n\n")
	for _, f := range models.Fields {
		line(&b, f.Label(), display(p.Get(f)))
	}
	b.WriteString("\n")
	line(&b, "Brand", rec.Brand)
	line(&b, "Materials", rec.MaterialSpec)
	line(&b, "Why", rec.Justification)
	line(&b, "Tip", rec.Tip)
	b.WriteString("\n")
	b.WriteString(CareNote)
	b.WriteString("\n\n")
	b.WriteString(Disclaimer)
	b.WriteString("\n")
	return b.String()
}

// Filename is the suggested download name for a session export.
func Filename(sessionID string) string {
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}
	return "footfit-" + sessionID + ".txt"
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(bullet)
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func display(v string) string {
	if v == "" {
		return "not answered"
	}
	return v
}
