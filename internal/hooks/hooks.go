package hooks

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OnFailure values.
const (
	OnFailureWarn   = "warn"
	OnFailureIgnore = "ignore"
)

// Hook runs Command for every event published on Topic. Topic may use NATS
// wildcards ("folio.portfolio.*", "folio.>").
type Hook struct {
	Name      string `yaml:"name"`
	Topic     string `yaml:"topic"`
	Command   string `yaml:"command"`
	Timeout   int    `yaml:"timeout"` // seconds; 0 = DefaultTimeout
	OnFailure string `yaml:"on_failure"`
}

type file struct {
	Hooks []Hook `yaml:"hooks"`
}

// LoadFile reads a YAML hooks file:
//
//	hooks:
//	  - name: notify
//	    topic: folio.portfolio.resolved
//	    command: notify-send "portfolio $FOLIO_CODE opened"
func LoadFile(path string) ([]Hook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hooks: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates hooks file data.
func Parse(data []byte) ([]Hook, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse hooks: %w", err)
	}
	for i := range f.Hooks {
		h := &f.Hooks[i]
		if h.Name == "" {
			h.Name = fmt.Sprintf("hook-%d", i+1)
		}
		if !strings.HasPrefix(h.Topic, "folio.") {
			return nil, fmt.Errorf("hook %s: topic %q must start with folio.", h.Name, h.Topic)
		}
		if strings.TrimSpace(h.Command) == "" {
			return nil, fmt.Errorf("hook %s: command is required", h.Name)
		}
		switch h.OnFailure {
		case "":
			h.OnFailure = OnFailureWarn
		case OnFailureWarn, OnFailureIgnore:
		default:
			return nil, fmt.Errorf("hook %s: on_failure must be warn or ignore, got %q", h.Name, h.OnFailure)
		}
	}
	return f.Hooks, nil
}
