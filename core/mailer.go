package core

import "context"

// Mailer sends the notification emails of the credential flows.
type Mailer interface {
	// SendVerificationEmail mails verifyURL, the absolute link that
	// completes verification.
	SendVerificationEmail(ctx context.Context, email, verifyURL string) error
	// SendRecoveryPassword mails a newly generated plaintext password.
	SendRecoveryPassword(ctx context.Context, email, password string) error
}
