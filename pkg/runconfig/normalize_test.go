package runconfig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/flake/pkg/flakyjson"
)

func params(t *testing.T, raw string) flakyjson.Params {
	t.Helper()
	var p flakyjson.Params
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestNormalize_Name(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "browser and platform",
			raw:  `{"browserName":"chromium","platform":"linux"}`,
			want: "chromium / linux / default",
		},
		{
			name: "browser version prefix",
			raw:  `{"browserName":"firefox","browserVersion":"89.0","platform":"darwin"}`,
			want: "firefox 89.0 / darwin / default",
		},
		{
			name: "missing browser",
			raw:  `{"platform":"win32"}`,
			want: "N/A / win32 / default",
		},
		{
			name: "missing platform renders empty",
			raw:  `{"browserName":"webkit"}`,
			want: "webkit /  / default",
		},
		{
			name: "channel replaces browser name",
			raw:  `{"browserName":"chromium","channel":"msedge","platform":"win32"}`,
			want: "msedge / win32 / default",
		},
		{
			name: "extras in insertion order",
			raw:  `{"mode":"service","headful":true,"platform":"linux","workers":4,"video":"on","browserName":"chromium"}`,
			want: "chromium / linux / service / headful / workers=4 / on",
		},
		{
			name: "falsy extras skipped",
			raw:  `{"browserName":"chromium","platform":"linux","headful":false,"trace":"","retries":0,"x":null}`,
			want: "chromium / linux / default",
		},
		{
			name: "volatile keys stripped",
			raw:  `{"browserName":"chromium","platform":"linux","timestamp":"123","ci.link":"https://ci","revision.id":"abc","revision.author":"a","revision.email":"e","revision.subject":"s","revision.timestamp":"1","revision.link":"l"}`,
			want: "chromium / linux / default",
		},
		{
			name: "empty mode defaulted in place",
			raw:  `{"mode":"","browserName":"chromium","platform":"linux","headful":true}`,
			want: "chromium / linux / default / headful",
		},
		{
			name: "fractional number",
			raw:  `{"browserName":"chromium","platform":"linux","scale":1.5}`,
			want: "chromium / linux / scale=1.5 / default",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(params(t, tt.raw))
			assert.Equal(t, tt.want, n.Configuration.Name())
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := params(t, `{"channel":"chrome","mode":"","timestamp":"1","platform":"linux"}`)
	before := raw.Entries()

	n := Normalize(raw)

	assert.Equal(t, before, raw.Entries())
	assert.Equal(t, []string{"mode", "platform", "browserName"}, n.Params.Keys())
	mode, _ := n.Params.Get("mode")
	assert.Equal(t, "default", mode)
}

func TestNormalize_ChannelFalsyKept(t *testing.T) {
	n := Normalize(params(t, `{"browserName":"chromium","channel":"","platform":"linux"}`))
	_, ok := n.Params.Get("channel")
	assert.True(t, ok)
	assert.Equal(t, "chromium", n.BrowserName)
}

func TestNormalize_DerivedFields(t *testing.T) {
	n := Normalize(params(t, `{"platform":"linux"}`))
	assert.Equal(t, "N/A", n.BrowserName)
	assert.Equal(t, "linux", n.Platform)
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := params(t, `{"browserName":"chromium","platform":"linux","headful":true,"workers":2}`)
	a := Normalize(raw)
	b := Normalize(raw)
	assert.True(t, a.Configuration.Equal(b.Configuration))
	assert.Equal(t, a.Configuration.Key(), b.Configuration.Key())
}

func TestConfiguration_IdentitySeparateFromLabel(t *testing.T) {
	// Same label, different keys: distinct identities.
	a := Normalize(params(t, `{"browserName":"chromium","platform":"linux","video":"on"}`))
	b := Normalize(params(t, `{"browserName":"chromium","platform":"linux","trace":"on"}`))
	assert.Equal(t, a.Configuration.Name(), b.Configuration.Name())
	assert.False(t, a.Configuration.Equal(b.Configuration))
}

func TestNewConfiguration(t *testing.T) {
	pairs := []Pair{{Key: KeyBrowserName, Value: "webkit"}, {Key: KeyPlatform, Value: "darwin"}, {Key: "headful", Value: "headful"}}
	c := NewConfiguration(pairs...)
	pairs[0].Value = "mutated"

	assert.Equal(t, "webkit / darwin / headful", c.Name())
	assert.Equal(t, "webkit / darwin / headful", c.String())
	assert.Equal(t, "webkit", c.Pairs()[0].Value)
	assert.False(t, c.IsZero())
	assert.True(t, Configuration{}.IsZero())
}

func TestTruthyAndStringify(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(float64(0)))
	assert.True(t, Truthy(json.RawMessage(`{}`)))
	assert.True(t, Truthy("x"))

	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "4", Stringify(float64(4)))
	assert.Equal(t, "0.5", Stringify(0.5))
	assert.Equal(t, "1000000", Stringify(1e6))
	assert.Equal(t, "1e+21", Stringify(1e21))
	assert.Equal(t, "-2.5e+22", Stringify(-2.5e22))
	assert.Equal(t, "1e-7", Stringify(1e-7))
	assert.Equal(t, "0.000001", Stringify(1e-6))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, `{"a":1}`, Stringify(json.RawMessage(`{"a":1}`)))
}
