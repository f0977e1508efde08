package stream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateJSON(t *testing.T) {
	raw, err := json.Marshal(State{Running: true, Health: HealthNotOk, Sequence: 12})
	require.NoError(t, err)
	assert.JSONEq(t, `{"running":true,"health":"not_ok","sequence":12}`, string(raw))
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{URL: "http://x/bcast/focus", StatusCode: 502, Status: "502 Bad Gateway"}
	assert.Equal(t, "unexpected status 502 Bad Gateway from http://x/bcast/focus", err.Error())
}
