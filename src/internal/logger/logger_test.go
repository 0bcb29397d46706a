package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePayloadMasksNestedSensitiveKeys(t *testing.T) {
	payload := map[string]any{
		"customerId": "c-1",
		"card": map[string]any{
			"cardNumber": "4111111111111111",
			"limit":      "100.00",
		},
		"items": []any{map[string]any{"pin": "1234"}},
	}

	out, ok := SanitizePayload(payload).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "c-1", out["customerId"])
	card := out["card"].(map[string]any)
	assert.Equal(t, "******", card["cardNumber"])
	assert.Equal(t, "100.00", card["limit"])
	item := out["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "******", item["pin"])
}

func TestErrorWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { Configure("json", "info") })

	Error("movement failed", errors.New("boom"), Fields{"accountId": "a-1", "password": "secret"})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "movement failed", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "a-1", record["accountId"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "******", record["password"])
}
