// Package metrics holds the Prometheus collectors for the client core and the sandbox.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "social"

// Client counts what the session and feed components do.
// A nil *Client is valid and records nothing.
type Client struct {
	refreshes   *prometheus.CounterVec
	retries     prometheus.Counter
	transitions *prometheus.CounterVec
	pages       *prometheus.CounterVec
}

// NewClient creates the client collectors and registers them with reg when reg is not nil.
func NewClient(reg prometheus.Registerer) *Client {
	c := &Client{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "refresh_total",
			Help:      "Credential refresh attempts by result.",
		}, []string{"result"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "retry_total",
			Help:      "Requests re-sent after a 401.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "transition_total",
			Help:      "Session state transitions.",
		}, []string{"to", "reason"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "page_total",
			Help:      "Pages fetched by kind and result.",
		}, []string{"kind", "result"}),
	}
	if reg != nil {
		reg.MustRegister(c.refreshes, c.retries, c.transitions, c.pages)
	}
	return c
}

func (c *Client) Refresh(err error) {
	if c == nil {
		return
	}
	c.refreshes.WithLabelValues(result(err)).Inc()
}

func (c *Client) Retry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

func (c *Client) Transition(to, reason string) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(to, reason).Inc()
}

func (c *Client) Page(kind string, err error) {
	if c == nil {
		return
	}
	c.pages.WithLabelValues(kind, result(err)).Inc()
}

// Server counts sandbox traffic.
type Server struct {
	requests *prometheus.CounterVec
}

func NewServer(reg prometheus.Registerer) *Server {
	s := &Server{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sandbox",
			Name:      "request_total",
			Help:      "Sandbox requests by route template and status code.",
		}, []string{"route", "code"}),
	}
	if reg != nil {
		reg.MustRegister(s.requests)
	}
	return s
}

func (s *Server) Request(route, code string) {
	if s == nil {
		return
	}
	s.requests.WithLabelValues(route, code).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
