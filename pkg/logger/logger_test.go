package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("cualquiera"))
}

func TestComponent_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "sucursales-api", Out: &buf})

	comp := l.Component("order")
	comp.Info().Str("order_id", "o1").Msg("orden creada")
	comp.Debug().Msg("no se escribe")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "sucursales-api", line["service"])
	assert.Equal(t, "order", line["component"])
	assert.Equal(t, "o1", line["order_id"])
	assert.Equal(t, "orden creada", line["message"])
}
