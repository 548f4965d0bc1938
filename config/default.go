package config

import (
	"log/slog"
	"time"

	"github.com/aquanorma/credentials/crypto"
)

// NewDefaultConfig creates a new Config with sensible defaults.
// The JWT secret is randomly generated.
func NewDefaultConfig() *Config {
	return &Config{
		PublicURL: "http://localhost:8080",
		DbFile:    "credentials.db",
		Server: Server{
			Addr:                    ":8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 5 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 30 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
			ClientIpProxyHeader:     "",
		},
		Jwt: Jwt{
			AuthSecret:        crypto.RandomString(32, crypto.AlphanumericAlphabet),
			AuthTokenDuration: Duration{Duration: 24 * time.Hour},
		},
		Smtp: Smtp{
			Enabled:     false,
			Host:        "smtp.gmail.com",
			Port:        587,
			FromName:    "Aquanorma",
			FromAddress: "",
			LocalName:   "",
			AuthMethod:  "plain",
			UseTLS:      false,
			Username:    "",
			Password:    "",
			SendTimeout: Duration{Duration: 10 * time.Second},
		},
		Avatar: Avatar{
			GravatarSize:    100,
			GravatarRating:  "x",
			GravatarDefault: "retro",
			MaxUploadSize:   5 << 20,
			TempDir:         "",
			UploadTimeout:   Duration{Duration: 20 * time.Second},
			S3: S3{
				Region: "us-east-1",
				Folder: "avatars",
			},
		},
		Profile: Profile{
			MaxDailyNorma: 15,
			MaxNameLength: 32,
			Genders:       []string{"male", "female"},
		},
		RateLimits: RateLimits{
			EmailVerificationCooldown: Duration{Duration: 1 * time.Minute},
			PasswordForgetCooldown:    Duration{Duration: 5 * time.Minute},
		},
		Log: Log{
			Level:  LogLevel{Level: slog.LevelInfo},
			Format: "json",
			Request: LogRequest{
				Activated: true,
				Limits: LogRequestLimits{
					URILength:       512, // Minimum: 64
					UserAgentLength: 256, // Minimum: 32
					RefererLength:   512, // Minimum: 64
					RemoteIPLength:  64,  // Minimum: 15
				},
			},
		},
		Metrics: Metrics{
			Enabled:    false,
			Endpoint:   "GET /metrics",
			AllowedIPs: []string{"127.0.0.1", "::1"},
		},
		BlockIp: BlockIp{
			Enabled:         false,
			Duration:        Duration{Duration: 15 * time.Minute},
			K:               10,
			WindowSize:      10,
			Width:           1024,
			Depth:           3,
			TickSize:        500,
			MaxSharePercent: 20,
			ActivationRPS:   200,
		},
		Notifier: Notifier{
			Discord: Discord{
				Enabled:     false,
				Interval:    Duration{Duration: 2 * time.Second},
				Burst:       5,
				SendTimeout: Duration{Duration: 10 * time.Second},
			},
		},
		Endpoints: Endpoints{
			Signup:         "POST /api/users/signup",
			Verify:         "GET /api/users/verify/:verificationToken",
			ResendVerify:   "POST /api/users/verify",
			Signin:         "POST /api/users/signin",
			Current:        "GET /api/users/current",
			Logout:         "POST /api/users/logout",
			DailyNorma:     "PATCH /api/users/dailynorma",
			Settings:       "PATCH /api/users/settings",
			Avatar:         "PATCH /api/users/avatars",
			ForgetPassword: "POST /api/users/forget-password",
			Recovery:       "POST /api/users/recovery",
		},
	}
}
