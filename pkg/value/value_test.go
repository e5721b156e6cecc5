package value_test

import (
	"testing"

	"github.com/platformatic/fgh/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"null", value.Null, false},
		{"false", value.Bool(false), false},
		{"true", value.Bool(true), true},
		{"zero", value.Number(0), true},
		{"nonzero", value.Number(1), true},
		{"negative", value.Number(-1), true},
		{"empty string", value.String(""), true},
		{"nonempty string", value.String("x"), true},
		{"empty array", value.Array(nil), true},
		{"nonempty array", value.Array([]value.Value{value.Null}), true},
		{"empty object", value.Obj(value.NewObject()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Truthy())
		})
	}
}

func TestEqual(t *testing.T) {
	obj1 := value.NewObject()
	obj1.Set("a", value.Number(1))
	obj1.Set("b", value.Number(2))

	obj2 := value.NewObject()
	obj2.Set("b", value.Number(2))
	obj2.Set("a", value.Number(1))

	assert.True(t, value.Equal(value.Obj(obj1), value.Obj(obj2)), "key order must not affect equality")
	assert.True(t, value.Equal(value.Array([]value.Value{value.Number(1), value.Number(2)}),
		value.Array([]value.Value{value.Number(1), value.Number(2)})))
	assert.False(t, value.Equal(value.Array([]value.Value{value.Number(1)}),
		value.Array([]value.Value{value.Number(1), value.Number(2)})))
	assert.False(t, value.Equal(value.Number(1), value.String("1")))
	assert.True(t, value.Equal(value.Null, value.Null))
}

func TestCompareTotalOrder(t *testing.T) {
	ordered := []value.Value{
		value.Null,
		value.Bool(false),
		value.Bool(true),
		value.Number(-1),
		value.Number(2),
		value.String("a"),
		value.String("b"),
		value.Array([]value.Value{value.Number(1)}),
		value.Obj(value.NewObject()),
	}
	for i := 0; i < len(ordered)-1; i++ {
		assert.Negative(t, value.Compare(ordered[i], ordered[i+1]), "index %d should sort before %d", i, i+1)
		assert.Positive(t, value.Compare(ordered[i+1], ordered[i]))
	}
	assert.Zero(t, value.Compare(value.Number(1), value.Number(1)))
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	obj := value.NewObject()
	obj.Set("z", value.Number(1))
	obj.Set("a", value.Number(2))
	obj.Set("m", value.Number(3))
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	obj.Set("a", value.Number(99))
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys(), "re-setting an existing key must not move it")
	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, 99.0, v.Number())

	obj.Delete("a")
	assert.Equal(t, []string{"z", "m"}, obj.Keys())
}

func TestObjectClone(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", value.Number(1))
	clone := obj.Clone()
	clone.Set("b", value.Number(2))
	assert.Equal(t, 1, obj.Len())
	assert.Equal(t, 2, clone.Len())
}
