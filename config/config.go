package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Environment variables that override secrets read from the config file.
const (
	EnvJwtSecret    = "CRED_JWT_SECRET"
	EnvSmtpPassword = "CRED_SMTP_PASSWORD"
	EnvS3SecretKey  = "CRED_S3_SECRET_KEY"
	EnvDiscordHook  = "CRED_DISCORD_WEBHOOK"
)

type Config struct {
	// PublicURL is the externally reachable base URL, used to build the
	// verification link sent by email.
	PublicURL  string
	DbFile     string
	Server     Server
	Jwt        Jwt
	Smtp       Smtp
	Avatar     Avatar
	Profile    Profile
	RateLimits RateLimits
	Log        Log
	Metrics    Metrics
	BlockIp    BlockIp
	Notifier   Notifier
	Endpoints  Endpoints

	// Source is the path the config was loaded from, empty for defaults.
	Source string `toml:"-"`
}

type Server struct {
	Addr                    string
	ShutdownGracefulTimeout Duration
	ReadTimeout             Duration
	ReadHeaderTimeout       Duration
	WriteTimeout            Duration
	IdleTimeout             Duration
	ClientIpProxyHeader     string
}

type Jwt struct {
	AuthSecret        string
	AuthTokenDuration Duration

	// generatedSecret is set when neither the file nor the environment
	// gave AuthSecret and the random default is in use.
	generatedSecret bool
}

type Smtp struct {
	Enabled     bool
	Host        string
	Port        int
	FromName    string
	FromAddress string
	LocalName   string
	// AuthMethod is one of "plain", "login", "cram-md5" or "none".
	AuthMethod string
	// UseTLS dials with implicit TLS (port 465). Plain connections are
	// upgraded with STARTTLS whenever the server offers it.
	UseTLS      bool
	Username    string
	Password    string
	SendTimeout Duration
}

// Avatar configures the default gravatar derived at signup and the object
// storage receiving uploaded avatars.
type Avatar struct {
	GravatarSize    int
	GravatarRating  string
	GravatarDefault string

	// MaxUploadSize in bytes of a multipart avatar request.
	MaxUploadSize int64
	// TempDir receives uploaded files until they reach the store. Empty
	// means os.TempDir().
	TempDir       string
	UploadTimeout Duration

	S3 S3
}

type S3 struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	// Folder is the key prefix of uploaded avatars.
	Folder string
	// PublicBaseURL, when set, is used to build the avatar URL instead of
	// the endpoint/bucket path.
	PublicBaseURL string
	UsePathStyle  bool
}

type Profile struct {
	MaxDailyNorma float64
	MaxNameLength int
	Genders       []string
}

type RateLimits struct {
	EmailVerificationCooldown Duration
	PasswordForgetCooldown    Duration
}

type Log struct {
	Level   LogLevel
	Format  string
	Request LogRequest
}

type LogRequest struct {
	Activated bool
	Limits    LogRequestLimits
}

type LogRequestLimits struct {
	URILength       int
	UserAgentLength int
	RefererLength   int
	RemoteIPLength  int
}

// Metrics exposes Prometheus metrics on Endpoint to AllowedIPs only.
type Metrics struct {
	Enabled    bool
	Endpoint   string
	AllowedIPs []string
}

// BlockIp blocks clients sending more than MaxSharePercent of the traffic
// once the server handles at least ActivationRPS requests per second.
type BlockIp struct {
	Enabled bool
	// Duration a detected client stays blocked.
	Duration        Duration
	K               int
	WindowSize      int
	Width           int
	Depth           int
	TickSize        uint64
	MaxSharePercent int
	ActivationRPS   int
}

// Notifier configures operator alarms, sent when a client gets blocked or
// a mail cannot be delivered.
type Notifier struct {
	Discord Discord
}

type Discord struct {
	Enabled    bool
	WebhookURL string
	// Interval is the minimum spacing between two messages once Burst is spent.
	Interval    Duration
	Burst       int
	SendTimeout Duration
}

// Endpoints hold "METHOD /path" patterns. Path parameters use the :name
// syntax of the router.
type Endpoints struct {
	Signup         string
	Verify         string
	ResendVerify   string
	Signin         string
	Current        string
	Logout         string
	DailyNorma     string
	Settings       string
	Avatar         string
	ForgetPassword string
	Recovery       string
}

// Duration wraps time.Duration so it reads and writes as "45m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogLevel wraps slog.Level for TOML ("debug", "info", "warn", "error").
type LogLevel struct {
	slog.Level
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	return l.Level.UnmarshalText(text)
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return l.Level.MarshalText()
}
