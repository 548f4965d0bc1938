package config

import "sync/atomic"

// Provider hands out the current configuration. Handlers call Get on every
// request so a configuration swapped with Update is picked up without
// restart.
type Provider struct {
	value atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.value.Store(cfg)
	return p
}

func (p *Provider) Get() *Config {
	return p.value.Load()
}

func (p *Provider) Update(cfg *Config) {
	p.value.Store(cfg)
}
