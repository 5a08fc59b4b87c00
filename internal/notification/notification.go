// Package notification delivers templated email to account holders.
package notification

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
)

// Template and subject pairs used by the OTP flows.
const (
	TemplateVerifyAccount = "verify-account"
	TemplateResetPassword = "reset-password"

	SubjectVerifyAccount = "Verify your email"
	SubjectResetPassword = "Reset password"
)

//go:embed templates/*.txt
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

// Message describes a notification payload. Context carries the values the
// template interpolates, e.g. the OTP code.
type Message struct {
	To       string
	Subject  string
	Template string
	Context  map[string]string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Render produces the message body from the named template.
func Render(msg Message) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, msg.Template+".txt", msg.Context); err != nil {
		return "", fmt.Errorf("render template %q: %w", msg.Template, err)
	}
	return b.String(), nil
}

// LoggerNotifier is a stub sink that writes notifications to the logger.
// Used in dev mode when no SMTP relay is configured. The OTP code itself is
// logged, which is acceptable only outside production.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

func (n *LoggerNotifier) Send(_ context.Context, msg Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	body, err := Render(msg)
	if err != nil {
		return err
	}
	n.logger.Info("notification",
		"to", msg.To,
		"subject", msg.Subject,
		"template", msg.Template,
		"body", body,
	)
	return nil
}
