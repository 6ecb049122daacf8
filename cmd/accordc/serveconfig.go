package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/accord-lang/accord/internal/actx"
	"github.com/accord-lang/accord/monitor"
	"github.com/accord-lang/accord/transport"
)

// sessionConfig is §6's monitor-start configuration surface (upstream
// selection, violation policy, call timeout, session name) - a
// separate small YAML shape from config.Config, which is strictly the
// model-checker's own §4.7 configuration and has no notion of a live
// transport.
type sessionConfig struct {
	Name          string `yaml:"name"`
	ViolationPolicy string `yaml:"violation_policy"`
	CallTimeoutMs int    `yaml:"call_timeout_ms"`

	Upstream struct {
		Kind         string `yaml:"kind"`
		URL          string `yaml:"url"`           // http
		Broker       string `yaml:"broker"`         // mqtt
		RequestTopic string `yaml:"request_topic"`  // mqtt
		ReplyTopic   string `yaml:"reply_topic"`    // mqtt
		RequestQueue string `yaml:"request_queue"`  // sqs
		ReplyQueue   string `yaml:"reply_queue"`    // sqs
	} `yaml:"upstream"`
}

func loadSessionConfig(path string) (*sessionConfig, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var c sessionConfig
	if err := yaml.Unmarshal(bs, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

func (c *sessionConfig) buildUpstream(ctx *actx.Ctx) (transport.Upstream, error) {
	switch c.Upstream.Kind {
	case "", "echo":
		return transport.NewEchoUpstream(), nil
	case "http":
		if c.Upstream.URL == "" {
			return nil, fmt.Errorf("upstream.kind http requires upstream.url")
		}
		return transport.NewHTTPUpstream(c.Upstream.URL), nil
	case "mqtt":
		if c.Upstream.Broker == "" || c.Upstream.RequestTopic == "" || c.Upstream.ReplyTopic == "" {
			return nil, fmt.Errorf("upstream.kind mqtt requires broker, request_topic, and reply_topic")
		}
		return transport.NewMQTTUpstream(ctx, c.Upstream.Broker, c.Upstream.RequestTopic, c.Upstream.ReplyTopic)
	case "sqs":
		if c.Upstream.RequestQueue == "" || c.Upstream.ReplyQueue == "" {
			return nil, fmt.Errorf("upstream.kind sqs requires request_queue and reply_queue")
		}
		return transport.NewSQSUpstream(c.Upstream.RequestQueue, c.Upstream.ReplyQueue)
	default:
		return nil, fmt.Errorf("unknown upstream.kind %q", c.Upstream.Kind)
	}
}

func (c *sessionConfig) buildPolicy() (monitor.Policy, error) {
	switch c.ViolationPolicy {
	case "", "log":
		return monitor.NewLogPolicy(), nil
	case "reject":
		return monitor.NewRejectPolicy(), nil
	case "crash":
		return monitor.NewCrashPolicy(), nil
	default:
		return monitor.Policy{}, fmt.Errorf("unknown violation_policy %q (callback is not configurable from YAML)", c.ViolationPolicy)
	}
}
