package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseGeneratedEmail(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "subject line followed by body",
			content:     "Subject: Urgent: Verify Your Account\n\nDear Alice,\nPlease verify now.",
			wantSubject: "Urgent: Verify Your Account",
			wantBody:    "Dear Alice,\nPlease verify now.",
		},
		{
			name:        "lowercase subject prefix",
			content:     "subject: Password Expiry\nYour password expires soon.",
			wantSubject: "Password Expiry",
			wantBody:    "Your password expires soon.",
		},
		{
			name:        "no subject line uses first line",
			content:     "Security Alert\nSuspicious login detected.\nReset your password.",
			wantSubject: "Security Alert",
			wantBody:    "Suspicious login detected.\nReset your password.",
		},
		{
			name:        "blank lines stripped from body",
			content:     "Subject: Notice\n\n\nFirst paragraph.\n\nSecond paragraph.\n",
			wantSubject: "Notice",
			wantBody:    "First paragraph.\nSecond paragraph.",
		},
		{
			name:        "empty content falls back to defaults",
			content:     "",
			wantSubject: "Important Notice",
			wantBody:    "Please review the attached information.",
		},
		{
			name:        "subject only falls back to default body",
			content:     "Subject: System Update",
			wantSubject: "System Update",
			wantBody:    "Please review the attached information.",
		},
		{
			name:        "empty subject value falls back to default subject",
			content:     "Subject:\nBody text here.",
			wantSubject: "Important Notice",
			wantBody:    "Body text here.",
		},
	}

	tp := NewTextProcessor(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := tp.ParseGeneratedEmail(tt.content)
			assert.Equal(t, tt.wantSubject, subject)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	valid := "Dear Alice, please review."
	assert.Equal(t, valid, tp.SanitizeUTF8(valid))

	invalid := "bad\xffbyte"
	assert.Equal(t, "badbyte", tp.SanitizeUTF8(invalid))
}
