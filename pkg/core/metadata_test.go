package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
)

func TestValueOf(t *testing.T) {
	t.Run("Scalars", func(t *testing.T) {
		v, err := core.ValueOf("hello")
		require.NoError(t, err)
		s, ok := v.AsString()
		assert.True(t, ok)
		assert.Equal(t, "hello", s)

		v, err = core.ValueOf(42)
		require.NoError(t, err)
		n, ok := v.AsNumber()
		assert.True(t, ok)
		assert.Equal(t, 42.0, n)

		v, err = core.ValueOf(int64(7))
		require.NoError(t, err)
		assert.Equal(t, core.KindNumber, v.Kind())

		v, err = core.ValueOf(true)
		require.NoError(t, err)
		b, ok := v.AsBool()
		assert.True(t, ok)
		assert.True(t, b)
	})

	t.Run("Accessors Reject Other Kinds", func(t *testing.T) {
		v := core.String("x")
		_, ok := v.AsNumber()
		assert.False(t, ok)
		_, ok = v.AsList()
		assert.False(t, ok)
	})

	t.Run("Time Becomes RFC3339 String", func(t *testing.T) {
		v, err := core.ValueOf(time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		s, ok := v.AsString()
		assert.True(t, ok)
		assert.Equal(t, "2023-06-15T00:00:00Z", s)
	})

	t.Run("Nested", func(t *testing.T) {
		v, err := core.ValueOf(map[string]any{
			"list": []any{"a", 1, false},
			"inner": map[string]any{
				"k": "v",
			},
		})
		require.NoError(t, err)
		m, ok := v.AsMap()
		require.True(t, ok)

		list, ok := m["list"].AsList()
		require.True(t, ok)
		require.Len(t, list, 3)
		assert.Equal(t, core.KindString, list[0].Kind())
		assert.Equal(t, core.KindNumber, list[1].Kind())
		assert.Equal(t, core.KindBool, list[2].Kind())

		inner, ok := m["inner"].AsMap()
		require.True(t, ok)
		assert.Equal(t, "v", inner["k"].String())
	})

	t.Run("Null Is Rejected", func(t *testing.T) {
		_, err := core.ValueOf([]any{nil})
		assert.Error(t, err)
	})
}

func TestMetadata_JSON(t *testing.T) {
	meta := core.Metadata{
		"coverImage": core.String("/cover.png"),
		"weight":     core.Number(3),
		"series":     core.List(core.String("robotics"), core.String("rl")),
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{"coverImage":"/cover.png","weight":3,"series":["robotics","rl"]}`, string(data))
	assert.Equal(t, []string{"coverImage", "series", "weight"}, meta.Keys())
}
