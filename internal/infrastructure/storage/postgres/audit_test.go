package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_CompressionRoundtrip(t *testing.T) {
	svc, err := NewAuditService(nil)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte(`{"before":null,"after":{"qty":5}}`), 1000)
	require.Greater(t, len(payload), svc.compressThreshold)

	compressed := svc.encoder.EncodeAll(payload, nil)
	assert.Less(t, len(compressed), len(payload))

	decompressed, err := svc.decoder.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, payload, decompressed)
}
