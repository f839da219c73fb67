package proxy

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"fmt"
	"net/url"
	"strconv"
)

// defaultPorts holds the port assumed for each supported scheme when the
// proxy URL does not carry an explicit one.
var defaultPorts = map[string]int{
	"http":   80,
	"https":  443,
	"socks4": 1080,
	"socks5": 1080,
}

// Resolve parses a proxy URL into a descriptor. An empty input means the
// solver egresses directly and resolves to a nil descriptor. Any malformed
// input is a fatal configuration error.
func Resolve(raw string) (*domain.ProxyDescriptor, error) {
	if raw == "" {
		return nil, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, config.NewError("PROXY", fmt.Sprintf("error parsing proxy URL: %v", err))
	}

	defPort, ok := defaultPorts[u.Scheme]
	if !ok {
		return nil, config.NewError("PROXY", fmt.Sprintf("unsupported proxy scheme %q", u.Scheme))
	}

	host := u.Hostname()
	if host == "" {
		return nil, config.NewError("PROXY", "proxy host is required")
	}

	port := defPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return nil, config.NewError("PROXY", fmt.Sprintf("invalid proxy port %q", p))
		}
	}

	parsed := &domain.ProxyDescriptor{
		Scheme: u.Scheme,
		Host:   host,
		Port:   port,
	}

	if u.User != nil {
		username := u.User.Username()
		password, _ := u.User.Password()
		// Empty userinfo is treated as absent, but a lone username or
		// password is an error: solver sessions need both.
		if username == "" && password == "" {
			return parsed, nil
		}
		if username == "" || password == "" {
			return nil, config.NewError("PROXY", "proxy username and password must both be set")
		}
		parsed.Username = username
		parsed.Password = password
	}

	return parsed, nil
}
