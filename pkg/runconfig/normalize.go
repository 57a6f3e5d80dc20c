// Package runconfig turns a test run's raw parameters into a canonical
// parameter set and the configuration identity shared across specs.
package runconfig

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dkoosis/flake/pkg/flakyjson"
)

// Well-known parameter keys.
const (
	KeyBrowserName    = "browserName"
	KeyBrowserVersion = "browserVersion"
	KeyPlatform       = "platform"
	KeyChannel        = "channel"
	KeyMode           = "mode"
)

// DefaultBrowserName is shown when a run has no browser name.
const DefaultBrowserName = "N/A"

// DefaultMode is assigned to runs that do not set a mode.
const DefaultMode = "default"

// volatileKeys vary between runs of the same configuration and never take
// part in identity or display.
var volatileKeys = []string{
	"timestamp",
	"ci.link",
	"revision.id",
	"revision.author",
	"revision.email",
	"revision.subject",
	"revision.timestamp",
	"revision.link",
}

// Normalized is the result of normalizing one run's parameters.
type Normalized struct {
	Params        flakyjson.Params
	Configuration Configuration
	BrowserName   string
	Platform      string
}

// Normalize canonicalizes raw. It never modifies raw; the returned Params
// share no storage with it.
func Normalize(raw flakyjson.Params) Normalized {
	params := raw.Clone()

	if channel, ok := params.Get(KeyChannel); ok && Truthy(channel) {
		params.Set(KeyBrowserName, channel)
		params.Delete(KeyChannel)
	}
	if mode, _ := params.Get(KeyMode); !Truthy(mode) {
		params.Set(KeyMode, DefaultMode)
	}
	for _, key := range volatileKeys {
		params.Delete(key)
	}

	browserName := DefaultBrowserName
	if v, _ := params.Get(KeyBrowserName); Truthy(v) {
		browserName = Stringify(v)
	}
	platform, _ := params.Get(KeyPlatform)

	return Normalized{
		Params:        params,
		Configuration: identify(params, browserName),
		BrowserName:   browserName,
		Platform:      Stringify(platform),
	}
}

func identify(params flakyjson.Params, browserName string) Configuration {
	pairs := []Pair{{Key: KeyBrowserName, Value: browserName}}
	if v, _ := params.Get(KeyBrowserVersion); Truthy(v) {
		pairs = append(pairs, Pair{Key: KeyBrowserVersion, Value: Stringify(v)})
	}
	platform, _ := params.Get(KeyPlatform)
	pairs = append(pairs, Pair{Key: KeyPlatform, Value: Stringify(platform)})

	for _, kv := range params.Entries() {
		switch kv.Key {
		case KeyPlatform, KeyBrowserName, KeyBrowserVersion:
			continue
		}
		if !Truthy(kv.Value) {
			continue
		}
		pairs = append(pairs, Pair{Key: kv.Key, Value: token(kv.Key, kv.Value)})
	}
	return newConfiguration(pairs)
}

// token renders an extra parameter for the configuration name: strings
// verbatim, true as the key name, anything else as key=value.
func token(key string, v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return key
	default:
		return key + "=" + Stringify(v)
	}
}

// Truthy reports whether v counts as set: empty strings, false, zero and
// null do not.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	default:
		return true
	}
}

// Stringify formats a parameter value for display. Null renders empty.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case int:
		return strconv.Itoa(val)
	case json.RawMessage:
		var buf bytes.Buffer
		if err := json.Compact(&buf, val); err == nil {
			return buf.String()
		}
		return strings.TrimSpace(string(val))
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// formatNumber prints f in plain decimal, switching to exponent form for
// magnitudes of at least 1e21 or below 1e-6, with no zero-padded exponent.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) || math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}
