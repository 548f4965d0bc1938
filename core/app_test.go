package core

import (
	"strings"
	"testing"

	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/db/mock"
	"github.com/aquanorma/credentials/notify"
)

func TestNewApp_RequiredCollaborators(t *testing.T) {
	provider := config.NewProvider(config.NewDefaultConfig())
	full := map[string]Option{
		"dbAuth": WithDbAuth(&mock.Db{}),
		"config": WithConfigProvider(provider),
		"router": WithRouter(&MockRouter{}),
		"cache":  WithCache(&MockCache{}),
		"mailer": WithMailer(&MockMailer{}),
	}

	for missing := range full {
		t.Run("without "+missing, func(t *testing.T) {
			var opts []Option
			for name, opt := range full {
				if name != missing {
					opts = append(opts, opt)
				}
			}
			_, err := NewApp(opts...)
			if err == nil {
				t.Fatalf("NewApp() without %s succeeded", missing)
			}
			if !strings.Contains(err.Error(), "required") {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestNewApp_Defaults(t *testing.T) {
	ta := newTestApp(t)

	if _, ok := ta.Auth().(*DefaultAuthenticator); !ok {
		t.Errorf("authenticator = %T, want *DefaultAuthenticator", ta.Auth())
	}
	if _, ok := ta.Validator().(*DefaultValidator); !ok {
		t.Errorf("validator = %T, want *DefaultValidator", ta.Validator())
	}
	if ta.AvatarStore() != nil {
		t.Error("avatar store set without WithAvatarStore")
	}
	if ta.Metrics() != nil {
		t.Error("metrics set without WithMetrics")
	}
	if ta.Config() != ta.cfg {
		t.Error("Config() does not return the provider's config")
	}
}

func TestNewApp_DefaultNotifier(t *testing.T) {
	app, err := NewApp(
		WithDbAuth(&mock.Db{}),
		WithConfigProvider(config.NewProvider(config.NewDefaultConfig())),
		WithRouter(&MockRouter{}),
		WithCache(&MockCache{}),
		WithMailer(&MockMailer{}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := app.Notifier().(*notify.NilNotifier); !ok {
		t.Errorf("notifier = %T, want *notify.NilNotifier", app.Notifier())
	}
}
