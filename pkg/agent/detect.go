// Package agent labels the execution agent (usually a browser) from its identification string.
package agent

import (
	"os"
	"strings"
)

// ServerSide is returned when no agent string is available at all.
const ServerSide = "Server Side"

// Source supplies the ambient agent identification string, if the context has one.
type Source interface {
	UserAgent() (string, bool)
}

// SourceFunc adapts a plain function to the Source interface
type SourceFunc func() (string, bool)

// UserAgent implements Source
func (f SourceFunc) UserAgent() (string, bool) {
	return f()
}

// Static returns a source that always reports ua.
func Static(ua string) Source {
	return SourceFunc(func() (string, bool) { return ua, true })
}

// None returns a source for contexts without an agent, such as pre-rendering.
func None() Source {
	return SourceFunc(func() (string, bool) { return "", false })
}

// Env returns a source reading the named environment variable. An unset variable means no agent.
func Env(key string) Source {
	return SourceFunc(func() (string, bool) { return os.LookupEnv(key) })
}

// Header returns a source for an HTTP User-Agent header value. An empty value means no agent.
func Header(value string) Source {
	return SourceFunc(func() (string, bool) { return value, value != "" })
}

// Rule matches when the agent string contains Contains and does not contain Excludes.
type Rule struct {
	Contains string
	Excludes string
	Label    string
}

// Rules is evaluated in order; the first match wins.
// Chrome excludes Edge and Safari excludes Chrome, so Edge and Chrome are not reported as Safari.
var Rules = []Rule{
	{Contains: "Chrome", Excludes: "Edge", Label: "Chrome"},
	{Contains: "Firefox", Label: "Firefox"},
	{Contains: "Safari", Excludes: "Chrome", Label: "Safari"},
	{Contains: "Edge", Label: "Edge"},
	{Contains: "Opera", Label: "Opera"},
	{Contains: "OPR", Label: "Opera"},
}

func (r Rule) matches(ua string) bool {
	if !strings.Contains(ua, r.Contains) {
		return false
	}
	return r.Excludes == "" || !strings.Contains(ua, r.Excludes)
}

// Label returns the label for ua using Rules. Unrecognized strings yield their first
// whitespace-delimited token.
func Label(ua string) string {
	for _, rule := range Rules {
		if rule.matches(ua) {
			return rule.Label
		}
	}

	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Detect labels the agent reported by src, or returns ServerSide when there is none.
func Detect(src Source) string {
	if src == nil {
		return ServerSide
	}
	ua, ok := src.UserAgent()
	if !ok {
		return ServerSide
	}
	return Label(ua)
}
