package om

import (
	"encoding/json"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type endpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func TestLinkedMapOfJSON(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		m.Store("z", 26)
		m.Store("a", 1)
		m.Store("m", 13)

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, `{"z":26,"a":1,"m":13}`, string(data))

		decoded := NewLinkedMapOf[string, int]()
		require.NoError(t, json.Unmarshal(data, decoded))
		keys, values := orderedPairs(decoded)
		assert.Equal(t, []string{"z", "a", "m"}, keys)
		assert.Equal(t, []int{26, 1, 13}, values)

		again, err := json.Marshal(decoded)
		require.NoError(t, err)
		assert.Equal(t, string(data), string(again))
	})
	t.Run("DocumentOrder", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		require.NoError(t, json.Unmarshal([]byte(`{"one":1,"two":2,"three":3}`), m))
		keys, _ := orderedPairs(m)
		assert.Equal(t, []string{"one", "two", "three"}, keys)
	})
	t.Run("IntKeys", func(t *testing.T) {
		m := NewLinkedMapOf[int, string]()
		m.Store(3, "c")
		m.Store(1, "a")
		m.Store(2, "b")

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, `{"3":"c","1":"a","2":"b"}`, string(data))

		decoded := NewLinkedMapOf[int, string]()
		require.NoError(t, json.Unmarshal(data, decoded))
		keys, _ := orderedPairs(decoded)
		assert.Equal(t, []int{3, 1, 2}, keys)
	})
	t.Run("TextMarshalerKeys", func(t *testing.T) {
		m := NewLinkedMapOf[netip.Addr, string]()
		m.Store(netip.MustParseAddr("10.0.0.2"), "replica")
		m.Store(netip.MustParseAddr("10.0.0.1"), "primary")

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, `{"10.0.0.2":"replica","10.0.0.1":"primary"}`, string(data))

		decoded := NewLinkedMapOf[netip.Addr, string]()
		require.NoError(t, json.Unmarshal(data, decoded))
		keys, values := orderedPairs(decoded)
		assert.Equal(t, []netip.Addr{
			netip.MustParseAddr("10.0.0.2"),
			netip.MustParseAddr("10.0.0.1"),
		}, keys)
		assert.Equal(t, []string{"replica", "primary"}, values)
	})
	t.Run("StructValues", func(t *testing.T) {
		m := NewLinkedMapOf[string, endpoint]()
		m.Store("db", endpoint{Host: "db.internal", Port: 5432})
		m.Store("cache", endpoint{Host: "cache.internal", Port: 6379})

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t,
			`{"db":{"host":"db.internal","port":5432},"cache":{"host":"cache.internal","port":6379}}`,
			string(data))

		decoded := NewLinkedMapOf[string, endpoint]()
		require.NoError(t, json.Unmarshal(data, decoded))
		assert.Equal(t, endpoint{Host: "db.internal", Port: 5432}, decoded.Value("db"))
		assert.Equal(t, endpoint{Host: "cache.internal", Port: 6379}, decoded.Value("cache"))
	})
	t.Run("Null", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		m.Store("a", 1)
		require.NoError(t, json.Unmarshal([]byte(`null`), m))
		assert.Equal(t, 1, m.Size())
		assert.Equal(t, 1, m.Value("a"))
	})
	t.Run("DuplicateKeys", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":2,"a":3}`), m))
		assert.Equal(t, 2, m.Size())
		// The last value wins, the first occurrence sets the position.
		keys, values := orderedPairs(m)
		assert.Equal(t, []string{"a", "b"}, keys)
		assert.Equal(t, []int{3, 2}, values)
	})
	t.Run("MergeIntoPopulated", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		m.Store("x", 1)
		require.NoError(t, json.Unmarshal([]byte(`{"y":2}`), m))
		assert.Equal(t, 2, m.Size())
		keys, _ := orderedPairs(m)
		assert.Equal(t, []string{"x", "y"}, keys)
	})
	t.Run("Errors", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		err := json.Unmarshal([]byte(`[1,2]`), m)
		assert.ErrorContains(t, err, "cannot unmarshal")

		err = json.Unmarshal([]byte(`{"a":"not a number"}`), m)
		assert.Error(t, err)

		mb := NewLinkedMapOf[uint8, int]()
		require.NoError(t, json.Unmarshal([]byte(`{"7":1}`), mb))
		err = json.Unmarshal([]byte(`{"256":1}`), mb)
		assert.ErrorContains(t, err, "invalid integer key")
	})
}

func TestLinkedMapOfJSONMarshalHook(t *testing.T) {
	calls := 0
	SetDefaultJSONMarshal(
		func(v any) ([]byte, error) {
			calls++
			return json.Marshal(v)
		},
		func(data []byte, v any) error {
			calls++
			return json.Unmarshal(data, v)
		},
	)
	defer SetDefaultJSONMarshal(nil, nil)

	m := NewLinkedMapOf[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(data))
	assert.Equal(t, 2, calls)

	require.NoError(t, json.Unmarshal([]byte(`{"c":3}`), m))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, m.Value("c"))
}

func TestLinkedMapOfYAML(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		m.Store("z", 26)
		m.Store("a", 1)
		m.Store("m", 13)

		data, err := yaml.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, "z: 26\na: 1\nm: 13\n", string(data))

		decoded := NewLinkedMapOf[string, int]()
		require.NoError(t, yaml.Unmarshal(data, decoded))
		keys, values := orderedPairs(decoded)
		assert.Equal(t, []string{"z", "a", "m"}, keys)
		assert.Equal(t, []int{26, 1, 13}, values)

		again, err := yaml.Marshal(decoded)
		require.NoError(t, err)
		assert.Equal(t, string(data), string(again))
	})
	t.Run("IntKeys", func(t *testing.T) {
		m := NewLinkedMapOf[int, string]()
		m.Store(3, "c")
		m.Store(1, "a")

		data, err := yaml.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, "3: c\n1: a\n", string(data))

		decoded := NewLinkedMapOf[int, string]()
		require.NoError(t, yaml.Unmarshal(data, decoded))
		keys, _ := orderedPairs(decoded)
		assert.Equal(t, []int{3, 1}, keys)
	})
	t.Run("StructValues", func(t *testing.T) {
		m := NewLinkedMapOf[string, endpoint]()
		m.Store("db", endpoint{Host: "db.internal", Port: 5432})
		m.Store("cache", endpoint{Host: "cache.internal", Port: 6379})

		data, err := yaml.Marshal(m)
		require.NoError(t, err)

		decoded := NewLinkedMapOf[string, endpoint]()
		require.NoError(t, yaml.Unmarshal(data, decoded))
		keys, values := orderedPairs(decoded)
		assert.Equal(t, []string{"db", "cache"}, keys)
		assert.Equal(t, []endpoint{
			{Host: "db.internal", Port: 5432},
			{Host: "cache.internal", Port: 6379},
		}, values)
	})
	t.Run("DuplicateKeys", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		require.NoError(t, yaml.Unmarshal([]byte("a: 1\nb: 2\na: 3\n"), m))
		assert.Equal(t, 2, m.Size())
		keys, values := orderedPairs(m)
		assert.Equal(t, []string{"a", "b"}, keys)
		assert.Equal(t, []int{3, 2}, values)
	})
	t.Run("SequenceError", func(t *testing.T) {
		m := NewLinkedMapOf[string, int]()
		err := yaml.Unmarshal([]byte("- 1\n- 2\n"), m)
		assert.ErrorContains(t, err, "cannot unmarshal YAML")
	})
}
