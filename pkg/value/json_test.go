package value_test

import (
	"testing"

	"github.com/platformatic/fgh/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringRoundTrip(t *testing.T) {
	src := `{"z":1,"a":[1,2,3],"nested":{"b":true,"c":null},"s":"hi\"there"}`
	v, err := value.ParseString(src)
	require.NoError(t, err)

	obj := v.Object()
	require.NotNil(t, obj)
	assert.Equal(t, []string{"z", "a", "nested", "s"}, obj.Keys(), "decode must preserve source key order")

	b, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, src, string(b))
}

func TestParseNumberForms(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"0", 0},
		{"-1", -1},
		{"3.25", 3.25},
		{"1e3", 1000},
		{"-2.5e-2", -0.025},
	}
	for _, tt := range tests {
		v, err := value.ParseString(tt.src)
		require.NoError(t, err)
		assert.Equal(t, value.KindNumber, v.Kind())
		assert.Equal(t, tt.want, v.Number())
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := value.ParseString(`{"a":}`)
	assert.Error(t, err)
}

func TestMarshalPreservesEmptyContainers(t *testing.T) {
	arr := value.Array(nil)
	b, err := arr.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	obj := value.Obj(value.NewObject())
	b, err = obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}
