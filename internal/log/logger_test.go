// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureAttachesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "juegosd-test", Version: "v1.2.3"})

	logger := WithComponent("catalog")
	logger.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "juegosd-test", entry["service"])
	assert.Equal(t, "v1.2.3", entry["version"])
	assert.Equal(t, "catalog", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestIDFromContext(ctx))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-7")
	logger := WithContext(ctx, Base())
	logger.Info().Msg("tagged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-7", entry["request_id"])
}
