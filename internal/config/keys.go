package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownKey is returned by Lookup for keys that are not part of Config.
var ErrUnknownKey = errors.New("unknown config key")

// Values returns every setting keyed by its dotted config key.
// Durations are rendered as strings so they round-trip through YAML.
func (c *Config) Values() map[string]interface{} {
	return map[string]interface{}{
		"workers.addresses":              append([]string(nil), c.Workers.Addresses...),
		"orchestrator.call_timeout":      c.Orchestrator.CallTimeout.String(),
		"registry.discovery_timeout":     c.Registry.DiscoveryTimeout.String(),
		"registry.discovery_concurrency": c.Registry.DiscoveryConcurrency,
		"agents.host":                    c.Agents.Host,
		"agents.web.port":                c.Agents.Web.Port,
		"agents.crm.port":                c.Agents.CRM.Port,
		"log.level":                      c.Log.Level,
		"log.file":                       c.Log.File,
		"tracing.enabled":                c.Tracing.Enabled,
		"output.format":                  c.Output.Format,
	}
}

// Keys returns every config key, sorted.
func Keys() []string {
	values := Default().Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the display form of one setting.
func (c *Config) Lookup(key string) (string, error) {
	value, ok := c.Values()[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return FormatValue(value), nil
}

// FormatValue renders a setting for display. Lists are comma separated and
// empty strings show as "(not set)".
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case []string:
		if len(v) == 0 {
			return "(not set)"
		}
		return strings.Join(v, ",")
	case string:
		if v == "" {
			return "(not set)"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Set parses value and assigns it to key. The result is validated.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "workers.addresses":
		var addrs []string
		for _, a := range strings.Split(value, ",") {
			if a = strings.TrimSpace(a); a != "" {
				addrs = append(addrs, a)
			}
		}
		c.Workers.Addresses = addrs
	case "orchestrator.call_timeout":
		return c.setDuration(key, value, &c.Orchestrator.CallTimeout)
	case "registry.discovery_timeout":
		return c.setDuration(key, value, &c.Registry.DiscoveryTimeout)
	case "registry.discovery_concurrency":
		return c.setInt(key, value, &c.Registry.DiscoveryConcurrency)
	case "agents.host":
		c.Agents.Host = value
	case "agents.web.port":
		return c.setInt(key, value, &c.Agents.Web.Port)
	case "agents.crm.port":
		return c.setInt(key, value, &c.Agents.CRM.Port)
	case "log.level":
		c.Log.Level = strings.ToLower(value)
	case "log.file":
		c.Log.File = value
	case "tracing.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		c.Tracing.Enabled = b
	case "output.format":
		c.Output.Format = strings.ToLower(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.Validate()
}

func (c *Config) setDuration(key, value string, dst *time.Duration) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	*dst = d
	return c.Validate()
}

func (c *Config) setInt(key, value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = n
	return c.Validate()
}
