package solver

import "clearance-refresher/internal/domain"

const (
	cmdRequestGet     = "request.get"
	cmdSessionCreate  = "sessions.create"
	cmdSessionDestroy = "sessions.destroy"

	statusOK = "ok"
)

// command is the envelope every solver operation is wrapped in.
type command struct {
	Cmd        string      `json:"cmd"`
	URL        string      `json:"url,omitempty"`
	Session    string      `json:"session,omitempty"`
	MaxTimeout int         `json:"maxTimeout,omitempty"`
	Proxy      *proxyEntry `json:"proxy,omitempty"`
}

// proxyEntry carries the egress proxy. request.get accepts only the URL
// form; sessions.create additionally takes credentials.
type proxyEntry struct {
	URL      string `json:"url"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type response struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	Solution *solution `json:"solution"`
}

type solution struct {
	Session string         `json:"session"`
	Cookies domain.Cookies `json:"cookies"`
}
