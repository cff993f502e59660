package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigure_JSONOutput(t *testing.T) {
	defer Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout})

	var buf bytes.Buffer
	Configure(Config{Level: InfoLevel, Output: &buf, Service: "courses-api"})

	Debug().Msg("hidden")
	Info().Str("course", "algebra").Msg("created")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "created", entry["message"])
	assert.Equal(t, "algebra", entry["course"])
	assert.Equal(t, "courses-api", entry["service"])
	assert.Equal(t, "info", entry["level"])
}

func TestCtx(t *testing.T) {
	defer Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout})

	var buf bytes.Buffer
	Configure(Config{Level: InfoLevel, Output: &buf})

	t.Run("falls back to default logger", func(t *testing.T) {
		buf.Reset()
		Ctx(context.Background()).Info().Msg("plain")
		assert.Contains(t, buf.String(), `"message":"plain"`)
	})

	t.Run("uses request scoped logger", func(t *testing.T) {
		buf.Reset()
		ctx := WithContext(context.Background(), WithField("request_id", "abc"))
		Ctx(ctx).Info().Msg("scoped")
		assert.Contains(t, buf.String(), `"request_id":"abc"`)
	})
}
