package notify

import (
	"bytes"
	"context"
	"html/template"
	"net/url"

	"github.com/baharkarakas/inventory-backend/internal/metrics"
)

var (
	activationTmpl = template.Must(template.New("activation").Parse(`<h1>Welcome to {{.Shop}}!</h1>
<p>Thank you for registering. Click the button below to activate your account:</p>
<a href="{{.Link}}" style="padding: 10px 15px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px;">Activate Account</a>
<p>If the button doesn't work, copy and paste this link into your browser:</p>
<p>{{.Link}}</p>
<p>This link is valid for 15 minutes.</p>
`))

	resetTmpl = template.Must(template.New("reset").Parse(`<h1>{{.Shop}} Password Reset</h1>
<p>You requested a password reset. Please click the link below to set a new password:</p>
<a href="{{.Link}}" style="padding: 10px 15px; background-color: #dc3545; color: white; text-decoration: none; border-radius: 5px;">Reset Password</a>
<p>This link is valid for 10 minutes only.</p>
<p>If you did not request this, please ignore this email.</p>
`))
)

type NotifierConfig struct {
	ShopName    string
	PublicHost  string // activation links point at the API
	FrontendURL string // reset links point at the SPA
}

// Notifier builds the token-bearing mails and hands them to a Mailer.
type Notifier struct {
	cfg    NotifierConfig
	mailer Mailer
}

func NewNotifier(cfg NotifierConfig, m Mailer) *Notifier {
	return &Notifier{cfg: cfg, mailer: m}
}

func (n *Notifier) ActivationLink(token string) string {
	return n.cfg.PublicHost + "/api/auth/activate/" + url.PathEscape(token)
}

func (n *Notifier) ResetLink(token string) string {
	return n.cfg.FrontendURL + "/reset-password/" + url.PathEscape(token)
}

func (n *Notifier) SendActivation(ctx context.Context, to, token string) error {
	return n.send(ctx, "activation", activationTmpl, to, "Welcome! Activate Your Account", n.ActivationLink(token))
}

func (n *Notifier) SendPasswordReset(ctx context.Context, to, token string) error {
	return n.send(ctx, "reset", resetTmpl, to, "Password Reset Request", n.ResetLink(token))
}

func (n *Notifier) send(ctx context.Context, kind string, t *template.Template, to, subject, link string) error {
	var body bytes.Buffer
	if err := t.Execute(&body, struct{ Shop, Link string }{n.cfg.ShopName, link}); err != nil {
		return err
	}
	err := n.mailer.Send(ctx, Message{Kind: kind, To: to, Subject: subject, HTML: body.String()})
	result := deliveryResult(err)
	if _, async := n.mailer.(*AsyncMailer); async && err == nil {
		// the worker counts the delivery
		result = "queued"
	}
	metrics.MailSent.WithLabelValues(kind, result).Inc()
	return err
}
