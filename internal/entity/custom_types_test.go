package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomTimeAcceptsBothLayouts(t *testing.T) {
	var payload struct {
		DataHora CustomTime `json:"data_hora"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"data_hora": "2025-03-10T10:20:00"}`), &payload))
	assert.Equal(t, time.Date(2025, 3, 10, 10, 20, 0, 0, time.UTC), payload.DataHora.Time)

	// Timezone-aware clients still parse.
	require.NoError(t, json.Unmarshal([]byte(`{"data_hora": "2025-03-10T10:20:00-04:00"}`), &payload))
	assert.Equal(t, 10, payload.DataHora.Hour())

	assert.Error(t, json.Unmarshal([]byte(`{"data_hora": "10/03/2025"}`), &payload))
}

func TestCustomTimeMarshal(t *testing.T) {
	ct := CustomTime{Time: time.Date(2025, 3, 10, 10, 20, 0, 0, time.UTC)}

	out, err := json.Marshal(ct)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-10T10:20:00"`, string(out))
}
