// Package config provides shared configuration utilities.
package config

import (
	"net/url"
	"os"
	"strings"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Lookup returns the value bound to a named parameter, if any.
// It plays the role of a page query string for non-browser front ends.
type Lookup func(name string) (string, bool)

// QueryLookup looks names up in parsed URL query values.
// Only the first value of a repeated parameter is considered.
func QueryLookup(values url.Values) Lookup {
	return func(name string) (string, bool) {
		vs, ok := values[name]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}
}

// ParseQueryLookup parses a raw query string ("debug=true&x=1", with or
// without the leading '?'). A malformed query yields a lookup that finds
// nothing.
func ParseQueryLookup(rawQuery string) Lookup {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return QueryLookup(nil)
	}
	return QueryLookup(values)
}

// EnvLookup looks names up in the process environment as prefix+NAME,
// so EnvLookup("CROSSING_")("debug") reads CROSSING_DEBUG.
func EnvLookup(prefix string) Lookup {
	return func(name string) (string, bool) {
		return os.LookupEnv(envKey(prefix, name))
	}
}

// EnvironLookup is EnvLookup over an explicit KEY=VALUE list, such as the
// environment an SSH client forwarded for its session.
func EnvironLookup(prefix string, environ []string) Lookup {
	return func(name string) (string, bool) {
		want := envKey(prefix, name)
		for _, kv := range environ {
			k, v, ok := strings.Cut(kv, "=")
			if ok && k == want {
				return v, true
			}
		}
		return "", false
	}
}

// ArgsLookup looks names up in "name=value" arguments. A bare "name"
// argument is read as "true". The first matching argument wins.
func ArgsLookup(args []string) Lookup {
	return func(name string) (string, bool) {
		for _, arg := range args {
			arg = strings.TrimLeft(arg, "-")
			k, v, ok := strings.Cut(arg, "=")
			if k != name {
				continue
			}
			if !ok {
				return "true", true
			}
			return v, true
		}
		return "", false
	}
}

// Chain tries each lookup in order and returns the first hit.
// Nil lookups are skipped.
func Chain(lookups ...Lookup) Lookup {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

func envKey(prefix, name string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
