package loader

import (
	"os"
	"strings"
)

// EnvLoader reads setting overrides from environment variables named
// after the setting key, e.g. KEYFOCUS_LOG_LEVEL for "log_level".
type EnvLoader struct {
	prefix string // Environment variable prefix (e.g., "KEYFOCUS_")
	lookup func(string) (string, bool)
}

// NewEnvLoader creates a loader over the process environment.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithLookup(prefix, os.LookupEnv)
}

// NewEnvLoaderWithLookup creates a loader with a custom lookup function.
func NewEnvLoaderWithLookup(prefix string, lookup func(string) (string, bool)) *EnvLoader {
	return &EnvLoader{prefix: prefix, lookup: lookup}
}

// VarName returns the environment variable for a setting key.
func (l *EnvLoader) VarName(key string) string {
	return l.prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load returns the set variables among keys, keyed by setting key.
// Empty values count as set.
func (l *EnvLoader) Load(keys []string) map[string]string {
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := l.lookup(l.VarName(k)); ok {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}
