package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadersMarshalPreservesOrder(t *testing.T) {
	h := Headers{
		{Key: "Server", Value: "nginx"},
		{Key: "Content-Type", Value: "text/html"},
		{Key: "Age", Value: "0"},
	}

	raw, err := json.Marshal(h)
	assert.NoError(t, err)
	assert.Equal(t, `{"Server":"nginx","Content-Type":"text/html","Age":"0"}`, string(raw))
}

func TestHeadersMarshalEmpty(t *testing.T) {
	raw, err := json.Marshal(Headers{})
	assert.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}

func TestHeadersUnmarshalRoundTrip(t *testing.T) {
	h := Headers{
		{Key: "Content-Type", Value: "text/html"},
		{Key: "Server", Value: "nginx"},
	}
	raw, err := json.Marshal(h)
	assert.NoError(t, err)

	var back Headers
	err = json.Unmarshal(raw, &back)
	assert.NoError(t, err)
	assert.Equal(t, h, back)
}

func TestHeadersUnmarshalEscapedKeys(t *testing.T) {
	var h Headers
	err := json.Unmarshal([]byte(`{"X-\"Quoted\"":"a\nb"}`), &h)
	assert.NoError(t, err)
	assert.Equal(t, Headers{{Key: `X-"Quoted"`, Value: "a\nb"}}, h)
}

func TestHeadersUnmarshalRejectsNonObject(t *testing.T) {
	cases := []string{
		`[]`,
		`"text"`,
		`42`,
		`null`,
		`{"key":42}`,
		`{"key":["a"]}`,
	}
	for _, raw := range cases {
		var h Headers
		err := json.Unmarshal([]byte(raw), &h)
		assert.ErrorIs(t, err, ErrMalformedHeaders, raw)
	}
}
