package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/aquanorma/credentials/crypto"
)

func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := validatePublicURL(cfg.PublicURL); err != nil {
		return fmt.Errorf("public url validation failed: %w", err)
	}
	if err := validateJwt(&cfg.Jwt); err != nil {
		return fmt.Errorf("jwt config validation failed: %w", err)
	}
	if err := validateSmtp(&cfg.Smtp); err != nil {
		return fmt.Errorf("smtp config validation failed: %w", err)
	}
	if err := validateAvatar(&cfg.Avatar); err != nil {
		return fmt.Errorf("avatar config validation failed: %w", err)
	}
	if err := validateProfile(&cfg.Profile); err != nil {
		return fmt.Errorf("profile config validation failed: %w", err)
	}
	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	if err := validateMetrics(&cfg.Metrics); err != nil {
		return fmt.Errorf("metrics config validation failed: %w", err)
	}
	if err := validateBlockIp(&cfg.BlockIp); err != nil {
		return fmt.Errorf("block ip config validation failed: %w", err)
	}
	if err := validateDiscord(&cfg.Notifier.Discord); err != nil {
		return fmt.Errorf("discord config validation failed: %w", err)
	}
	if err := validateEndpoints(&cfg.Endpoints); err != nil {
		return fmt.Errorf("endpoints config validation failed: %w", err)
	}
	return nil
}

// validateServer checks the Server configuration section.
// It ensures the Addr field is not empty and contains a valid host:port or :port format.
// If only a port is provided (e.g., ":8080"), it defaults the host to "localhost".
//
// Allowed formats:
//   - "host:port" (e.g., "example.com:8080", "127.0.0.1:8080", "[::1]:8080")
//   - ":port"     (e.g., ":8080" becomes "localhost:8080")
func validateServer(server *Server) error {
	if server.Addr == "" {
		return fmt.Errorf("server address (Addr) cannot be empty")
	}

	host, port, err := net.SplitHostPort(server.Addr)
	if err != nil {
		return fmt.Errorf("invalid server address format '%s': %w", server.Addr, err)
	}
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		return fmt.Errorf("server address '%s' must include a port", server.Addr)
	}

	server.Addr = net.JoinHostPort(host, port)

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port '%s' in server address '%s': %w", port, server.Addr, err)
	}

	return nil
}

func validatePublicURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme of '%s' must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("'%s' has no host", raw)
	}
	return nil
}

func validateJwt(j *Jwt) error {
	if len(j.AuthSecret) < crypto.MinKeyLength {
		return fmt.Errorf("auth secret must be at least %d bytes", crypto.MinKeyLength)
	}
	if j.AuthTokenDuration.Duration <= 0 {
		return fmt.Errorf("auth token duration must be positive")
	}
	return nil
}

func validateSmtp(s *Smtp) error {
	if !s.Enabled {
		return nil
	}
	if s.Host == "" || s.Port <= 0 {
		return fmt.Errorf("host and port are required when smtp is enabled")
	}
	if s.FromAddress == "" {
		return fmt.Errorf("from address is required when smtp is enabled")
	}
	switch s.AuthMethod {
	case "plain", "login", "cram-md5", "none":
	default:
		return fmt.Errorf("unknown auth method '%s'", s.AuthMethod)
	}
	return nil
}

func validateAvatar(a *Avatar) error {
	if a.GravatarSize < 1 || a.GravatarSize > 2048 {
		return fmt.Errorf("gravatar size must be between 1 and 2048")
	}
	if a.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	return nil
}

func validateProfile(p *Profile) error {
	if p.MaxDailyNorma <= 0 {
		return fmt.Errorf("max daily norma must be positive")
	}
	if p.MaxNameLength <= 0 {
		return fmt.Errorf("max name length must be positive")
	}
	if len(p.Genders) == 0 {
		return fmt.Errorf("at least one gender value is required")
	}
	return nil
}

func validateLog(l *Log) error {
	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("format '%s' must be json or text", l.Format)
	}
	return nil
}

func validateMetrics(m *Metrics) error {
	if !m.Enabled {
		return nil
	}
	method, path, ok := strings.Cut(m.Endpoint, " ")
	if !ok || method == "" || !strings.HasPrefix(path, "/") {
		return fmt.Errorf("endpoint '%s' must be 'METHOD /path'", m.Endpoint)
	}
	for _, ip := range m.AllowedIPs {
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("allowed ip '%s' is not an ip address", ip)
		}
	}
	return nil
}

func validateBlockIp(b *BlockIp) error {
	if !b.Enabled {
		return nil
	}
	if b.K <= 0 || b.WindowSize <= 0 || b.Width <= 0 || b.Depth <= 0 || b.TickSize == 0 {
		return fmt.Errorf("sketch sizes must be positive")
	}
	if b.MaxSharePercent <= 0 || b.MaxSharePercent > 100 {
		return fmt.Errorf("max share percent %d must be in 1..100", b.MaxSharePercent)
	}
	if b.Duration.Duration <= 0 {
		return fmt.Errorf("block duration must be positive")
	}
	return nil
}

func validateDiscord(d *Discord) error {
	if !d.Enabled {
		return nil
	}
	u, err := url.Parse(d.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("webhook url '%s' must be an http(s) url", d.WebhookURL)
	}
	if d.Interval.Duration <= 0 || d.Burst <= 0 || d.SendTimeout.Duration <= 0 {
		return fmt.Errorf("interval, burst and send timeout must be positive")
	}
	return nil
}

func validateEndpoints(e *Endpoints) error {
	all := map[string]string{
		"Signup":         e.Signup,
		"Verify":         e.Verify,
		"ResendVerify":   e.ResendVerify,
		"Signin":         e.Signin,
		"Current":        e.Current,
		"Logout":         e.Logout,
		"DailyNorma":     e.DailyNorma,
		"Settings":       e.Settings,
		"Avatar":         e.Avatar,
		"ForgetPassword": e.ForgetPassword,
		"Recovery":       e.Recovery,
	}
	for name, ep := range all {
		method, path, ok := strings.Cut(ep, " ")
		if !ok || method == "" || !strings.HasPrefix(path, "/") {
			return fmt.Errorf("endpoint %s '%s' must be 'METHOD /path'", name, ep)
		}
	}
	if !strings.HasSuffix(e.Verify, "/:verificationToken") {
		return fmt.Errorf("endpoint Verify '%s' must end with /:verificationToken", e.Verify)
	}
	return nil
}

// VerifyPath returns the Verify endpoint path without the method and the
// token parameter, e.g. "/api/users/verify/".
func (e Endpoints) VerifyPath() string {
	_, path, _ := strings.Cut(e.Verify, " ")
	return strings.TrimSuffix(path, ":verificationToken")
}
