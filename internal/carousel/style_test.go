package carousel

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyle_ZeroValueIsDefault(t *testing.T) {
	var s Style
	assert.Equal(t, Light, s)
	assert.Equal(t, DefaultStyle, s)
}

func TestStyle_String(t *testing.T) {
	assert.Equal(t, "light", Light.String())
	assert.Equal(t, "dark", Dark.String())
	assert.Equal(t, "white", White.String())
	assert.Equal(t, "Style(9)", Style(9).String())
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"light", Light},
		{"Dark", Dark},
		{"  WHITE ", White},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseStyle("sepia")
	assert.True(t, errors.Is(err, ErrUnknownStyle))
}

func TestStyle_Cycle(t *testing.T) {
	assert.Equal(t, Dark, Light.Next())
	assert.Equal(t, White, Dark.Next())
	assert.Equal(t, Light, White.Next())

	assert.Equal(t, White, Light.Prev())
	assert.Equal(t, Light, Dark.Prev())
}

func TestStyle_TextEncoding(t *testing.T) {
	type wrapper struct {
		Style Style `json:"style"`
	}

	data, err := json.Marshal(wrapper{Style: White})
	require.NoError(t, err)
	assert.JSONEq(t, `{"style":"white"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"style":"dark"}`), &w))
	assert.Equal(t, Dark, w.Style)

	assert.Error(t, json.Unmarshal([]byte(`{"style":"neon"}`), &w))

	_, err = Style(-1).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownStyle)
}
