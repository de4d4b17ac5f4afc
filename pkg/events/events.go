// Package events publishes structured application events to a log
// stream so they can be filtered and aggregated downstream.
package events

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Static metadata folded into every published event, keyed by the
// environment variable it is read from.
var metadataEnvVars = map[string]string{
	"release":                "GIT_SHA",
	"aws_private_ip":         "AWS_LOCAL_IP",
	"aws_instance_id":        "AWS_INSTANCE_ID",
	"aws_availability_zone":  "AWS_AVAILABILITY_ZONE",
	"aws_auto_scaling_group": "AWS_AUTO_SCALING_GROUP",
}

// Publisher emits events to a logrus logger.
type Publisher struct {
	logger *logrus.Logger
	meta   map[string]any
}

// New returns a Publisher writing to the given logger. Tests inject a
// logger with a capture hook attached.
func New(logger *logrus.Logger) *Publisher {
	return &Publisher{logger: logger, meta: map[string]any{}}
}

// NewFromEnv returns a Publisher that folds the process's deployment
// metadata, read from the environment, into every event.
func NewFromEnv(logger *logrus.Logger) *Publisher {
	p := New(logger)
	for key, envVar := range metadataEnvVars {
		if value := os.Getenv(envVar); value != "" {
			p.meta[key] = value
		}
	}
	return p
}

// Default returns a Publisher writing JSON to stderr.
func Default() *Publisher {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return NewFromEnv(logger)
}

// Option attaches data to a published event.
type Option func(*payload)

type payload struct {
	params  map[string]any
	meta    map[string]any
	account string
}

// WithParams attaches the values the event was created from, such as
// the path of a request.
func WithParams(params map[string]any) Option {
	return func(p *payload) { p.params = params }
}

// WithMeta attaches contextual values around the event, such as the
// IP address of the caller.
func WithMeta(meta map[string]any) Option {
	return func(p *payload) {
		if p.meta == nil {
			p.meta = map[string]any{}
		}
		for key, value := range meta {
			p.meta[key] = value
		}
	}
}

// WithAccount tags the event with the account number it relates to,
// so events for a single account are easy to filter.
func WithAccount(number string) Option {
	return func(p *payload) { p.account = number }
}

// Publish emits the event. It is fire and forget: failures surface in
// the log stream, never to the caller.
func (p *Publisher) Publish(event string, opts ...Option) {
	var pl payload
	for _, opt := range opts {
		opt(&pl)
	}

	meta := map[string]any{}
	for key, value := range p.meta {
		meta[key] = value
	}
	for key, value := range pl.meta {
		meta[key] = value
	}

	fields := logrus.Fields{"meta": meta}
	if pl.params != nil {
		fields["params"] = pl.params
	}
	if pl.account != "" {
		fields["account"] = pl.account
	}
	p.logger.WithFields(fields).Info(event)
}
