package domain

import (
	"fmt"
)

// ProxyDescriptor is the parsed form of the PROXY configuration value.
// It is built once at startup and never mutated afterwards.
type ProxyDescriptor struct {
	Scheme   string
	Host     string
	Port     int
	Username string
	Password string
}

// Address renders the credential-free form handed to solver backends.
func (p *ProxyDescriptor) Address() string {
	return fmt.Sprintf("%s://%s:%d", p.Scheme, p.Host, p.Port)
}

func (p *ProxyDescriptor) HasCredentials() bool {
	return p.Username != "" || p.Password != ""
}
