package runconfig

import (
	"strconv"
	"strings"
)

// Pair is one element of a configuration identity: a parameter key and the
// token it contributes to the configuration name.
type Pair struct {
	Key   string
	Value string
}

// Configuration identifies a run context (browser, platform, flags).
// Equality is by Key; Name is the display label derived from the same pairs.
type Configuration struct {
	pairs []Pair
	key   string
	name  string
}

// NewConfiguration builds a configuration from identity pairs. The first
// pairs are expected to be browserName, optional browserVersion and platform.
func NewConfiguration(pairs ...Pair) Configuration {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return newConfiguration(cp)
}

func newConfiguration(pairs []Pair) Configuration {
	return Configuration{pairs: pairs, key: encodeKey(pairs), name: displayName(pairs)}
}

// Key returns an unambiguous encoding of the identity, usable as a map key.
func (c Configuration) Key() string { return c.key }

// Name returns the display label, e.g. "chromium 90 / linux / headful".
func (c Configuration) Name() string { return c.name }

// String implements fmt.Stringer.
func (c Configuration) String() string { return c.name }

// Pairs returns a copy of the identity pairs.
func (c Configuration) Pairs() []Pair {
	out := make([]Pair, len(c.pairs))
	copy(out, c.pairs)
	return out
}

// Equal reports whether c and o have the same identity.
func (c Configuration) Equal(o Configuration) bool { return c.key == o.key }

// IsZero reports whether c was never built.
func (c Configuration) IsZero() bool { return len(c.pairs) == 0 }

func encodeKey(pairs []Pair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Quote(p.Key))
		sb.WriteByte('=')
		sb.WriteString(strconv.Quote(p.Value))
	}
	return sb.String()
}

func displayName(pairs []Pair) string {
	var browser, version, platform string
	var extras []string
	for _, p := range pairs {
		switch p.Key {
		case KeyBrowserName:
			browser = p.Value
		case KeyBrowserVersion:
			version = p.Value
		case KeyPlatform:
			platform = p.Value
		default:
			extras = append(extras, p.Value)
		}
	}

	prefix := browser
	if browser != "" && version != "" {
		prefix = browser + " " + version
	}
	parts := append([]string{prefix, platform}, extras...)
	return strings.Join(parts, " / ")
}
