package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/redwanhasan980/TaskManagement/auth"
)

const (
	tagEmailVerification = "email-verification"
	tagPasswordReset     = "password-reset"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<html>
<body>
	<h2>Welcome to Task Management</h2>
	<p>Please confirm your email address to activate your account.</p>
	<p><a href="{{.Link}}">Verify my email</a></p>
	<p>Or paste this link into your browser:</p>
	<p>{{.Link}}</p>
	<p>The link expires in 24 hours. If you did not create an account you can ignore this email.</p>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("password-reset").Parse(`<html>
<body>
	<h2>Password reset requested</h2>
	<p>We received a request to reset the password for your account.</p>
	<p><a href="{{.Link}}">Reset my password</a></p>
	<p>Or paste this link into your browser:</p>
	<p>{{.Link}}</p>
	<p>The link expires in 1 hour. If you did not request a reset you can ignore this email.</p>
</body>
</html>`))

// Notifier builds and sends account lifecycle emails through a Sender.
type Notifier struct {
	sender  Sender
	baseURL string
}

var _ auth.Notifier = (*Notifier)(nil)

// NewNotifier wires a Sender to the lifecycle email templates. baseURL
// is the public origin links are built against, e.g. https://app.example.com.
func NewNotifier(sender Sender, baseURL string) *Notifier {
	return &Notifier{
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (n *Notifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	body, err := renderLink(verificationTmpl, fmt.Sprintf("%s/verify-email?token=%s", n.baseURL, token))
	if err != nil {
		return err
	}

	return n.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   email,
		Subject:  "Verify your email address",
		BodyHTML: body,
		Tag:      tagEmailVerification,
	})
}

func (n *Notifier) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	body, err := renderLink(passwordResetTmpl, fmt.Sprintf("%s/reset-password?token=%s", n.baseURL, token))
	if err != nil {
		return err
	}

	return n.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   email,
		Subject:  "Reset your password",
		BodyHTML: body,
		Tag:      tagPasswordReset,
	})
}

func renderLink(tmpl *template.Template, link string) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, struct{ Link string }{Link: link}); err != nil {
		return "", fmt.Errorf("%w: failed to render template: %v", ErrFailedToSendEmail, err)
	}
	return sb.String(), nil
}
