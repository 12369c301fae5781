package jsonsafe

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawRecord struct {
	raw map[string]any
}

func (r rawRecord) Raw() map[string]any { return r.raw }

type wifiClient struct {
	Hostname string `json:"hostname"`
	Blocked  bool   `json:"blocked"`
	RxBytes  int64  `json:"rx_bytes"`
	Secret   string `json:"-"`
	internal int
}

func TestToJSONSafe(t *testing.T) {
	t.Run("primitives pass through", func(t *testing.T) {
		assert.Nil(t, ToJSONSafe(nil))
		assert.Equal(t, "text", ToJSONSafe("text"))
		assert.Equal(t, true, ToJSONSafe(true))
		assert.Equal(t, 42, ToJSONSafe(42))
		assert.Equal(t, 3.14, ToJSONSafe(3.14))
		assert.Equal(t, json.Number("7"), ToJSONSafe(json.Number("7")))
	})

	t.Run("bytes become text", func(t *testing.T) {
		assert.Equal(t, "abc", ToJSONSafe([]byte("abc")))
	})

	t.Run("time formatted", func(t *testing.T) {
		ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, "2024-05-01T12:00:00Z", ToJSONSafe(ts))
	})

	t.Run("raw carrier wins over field projection", func(t *testing.T) {
		r := rawRecord{raw: map[string]any{"_id": "c1", "blocked": true}}
		assert.Equal(t, map[string]any{"_id": "c1", "blocked": true}, ToJSONSafe(r))
	})

	t.Run("struct projected by json tags", func(t *testing.T) {
		c := wifiClient{Hostname: "laptop", Blocked: true, RxBytes: 1024, Secret: "s", internal: 9}
		got, ok := ToJSONSafe(c).(map[string]any)
		require.True(t, ok)

		assert.Equal(t, "laptop", got["hostname"])
		assert.Equal(t, true, got["blocked"])
		assert.Equal(t, int64(1024), got["rx_bytes"])
		assert.NotContains(t, got, "Secret")
		assert.NotContains(t, got, "internal")
	})

	t.Run("nested structures converted recursively", func(t *testing.T) {
		v := map[string]any{
			"clients": []any{
				rawRecord{raw: map[string]any{"_id": "a"}},
				wifiClient{Hostname: "phone"},
			},
			"count": 2,
		}
		got, ok := ToJSONSafe(v).(map[string]any)
		require.True(t, ok)

		clients, ok := got["clients"].([]any)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"_id": "a"}, clients[0])

		second, ok := clients[1].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "phone", second["hostname"])
	})

	t.Run("pointers dereferenced", func(t *testing.T) {
		c := &wifiClient{Hostname: "nas"}
		got, ok := ToJSONSafe(c).(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "nas", got["hostname"])

		var nilClient *wifiClient
		assert.Nil(t, ToJSONSafe(nilClient))
	})

	t.Run("non-string map keys stringified", func(t *testing.T) {
		got := ToJSONSafe(map[int]string{1: "one"})
		assert.Equal(t, map[string]any{"1": "one"}, got)
	})

	t.Run("total over unserializable values", func(t *testing.T) {
		fn := func() {}
		got := ToJSONSafe(fn)
		_, isString := got.(string)
		assert.True(t, isString, "functions degrade to text instead of panicking")
	})

	t.Run("idempotent", func(t *testing.T) {
		v := map[string]any{
			"rec":  rawRecord{raw: map[string]any{"_id": "a", "up": true}},
			"list": []any{1, "two", false},
		}
		once := ToJSONSafe(v)
		twice := ToJSONSafe(once)
		assert.Equal(t, once, twice)
	})

	t.Run("depth capped", func(t *testing.T) {
		deep := map[string]any{}
		cur := deep
		for i := 0; i < 100; i++ {
			next := map[string]any{}
			cur["next"] = next
			cur = next
		}
		assert.NotPanics(t, func() { ToJSONSafe(deep) })
	})

	t.Run("output encodes cleanly", func(t *testing.T) {
		v := []any{
			rawRecord{raw: map[string]any{"_id": "a"}},
			wifiClient{Hostname: "tv", Blocked: false},
			"plain",
		}
		_, err := json.Marshal(ToJSONSafeSlice(v))
		assert.NoError(t, err)
	})
}

func TestToJSONSafeSlice(t *testing.T) {
	records := []rawRecord{
		{raw: map[string]any{"_id": "a"}},
		{raw: map[string]any{"_id": "b"}},
	}
	got := ToJSONSafeSlice(records)

	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{"_id": "a"}, got[0])
	assert.Equal(t, map[string]any{"_id": "b"}, got[1])
}
