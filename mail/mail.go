package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strconv"

	"github.com/aquanorma/credentials/config"
	"github.com/domodwyer/mailyak/v3"
)

var ErrMailDisabled = errors.New("smtp is disabled")

// Mailer sends the credential notifications. Settings are read from the
// provider on every send.
type Mailer struct {
	configProvider *config.Provider
}

// New creates a new Mailer instance
func New(provider *config.Provider) (*Mailer, error) {
	if provider == nil {
		return nil, fmt.Errorf("mail: config provider cannot be nil")
	}
	return &Mailer{configProvider: provider}, nil
}

// SendVerificationEmail sends the link that confirms ownership of email.
// verifyURL is the absolute URL of the verify endpoint including the token.
func (m *Mailer) SendVerificationEmail(ctx context.Context, email, verifyURL string) error {
	cfg := m.configProvider.Get()
	body := fmt.Sprintf(`<p>Hello,</p>
<p>Thank you for joining %s. Click the link below to verify your email.</p>
<p><a target="_blank" href="%s">Verify email</a></p>`,
		html.EscapeString(cfg.Smtp.FromName), html.EscapeString(verifyURL))

	if err := m.send(ctx, &cfg.Smtp, email, "Verify email", body); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// SendRecoveryPassword sends a newly generated password in plaintext.
func (m *Mailer) SendRecoveryPassword(ctx context.Context, email, password string) error {
	cfg := m.configProvider.Get()
	body := fmt.Sprintf(`<p>Hello,</p>
<p>Your new password: <b>%s</b></p>
<p>Change it in your profile settings after signing in.</p>`,
		html.EscapeString(password))

	if err := m.send(ctx, &cfg.Smtp, email, "Recovery password", body); err != nil {
		return fmt.Errorf("failed to send recovery password email: %w", err)
	}
	return nil
}

func (m *Mailer) send(ctx context.Context, sc *config.Smtp, to, subject, body string) error {
	if !sc.Enabled {
		return ErrMailDisabled
	}

	mail, err := newMailYak(sc)
	if err != nil {
		return err
	}

	mail.To(to)
	mail.From(sc.FromAddress)
	mail.FromName(sc.FromName)
	mail.Subject(subject)
	mail.HTML().Set(body)
	if sc.LocalName != "" {
		mail.LocalName(sc.LocalName)
	}

	if sc.SendTimeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sc.SendTimeout.Duration)
		defer cancel()
	}

	// mailyak has no context support; the send goroutine is abandoned on
	// cancellation and ends with the underlying connection.
	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func newMailYak(sc *config.Smtp) (*mailyak.MailYak, error) {
	addr := net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port))
	auth := smtpAuth(sc)

	if sc.UseTLS {
		mail, err := mailyak.NewWithTLS(addr, auth, &tls.Config{ServerName: sc.Host})
		if err != nil {
			return nil, fmt.Errorf("failed to create tls mail client: %w", err)
		}
		return mail, nil
	}
	// Plain connections are upgraded with STARTTLS when the server offers it.
	return mailyak.New(addr, auth), nil
}

func smtpAuth(sc *config.Smtp) smtp.Auth {
	switch sc.AuthMethod {
	case "none":
		return nil
	case "cram-md5":
		return smtp.CRAMMD5Auth(sc.Username, sc.Password)
	case "login":
		return &loginAuth{username: sc.Username, password: sc.Password}
	default:
		return smtp.PlainAuth("", sc.Username, sc.Password, sc.Host)
	}
}

// loginAuth implements the LOGIN mechanism, which net/smtp lacks.
type loginAuth struct {
	username, password string
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", []byte{}, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	switch string(fromServer) {
	case "Username:":
		return []byte(a.username), nil
	case "Password:":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("unexpected server challenge: %q", fromServer)
	}
}
