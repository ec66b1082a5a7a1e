package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTuning_Defaults(t *testing.T) {
	tuning, err := LoadTuning()

	require.NoError(t, err)
	assert.Equal(t, int32(10), tuning.PoolMaxConns)
	assert.Equal(t, 10*time.Second, tuning.QueryTimeout)
	assert.Equal(t, 1, tuning.KafkaRequiredAcks)
	assert.Equal(t, time.Second, tuning.KafkaBatchTimeout)
}

func TestLoadTuning_EnvOverride(t *testing.T) {
	t.Setenv("DB_QUERY_TIMEOUT", "250ms")
	t.Setenv("DB_POOL_MAX_CONNS", "2")

	tuning, err := LoadTuning()

	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, tuning.QueryTimeout)
	assert.Equal(t, int32(2), tuning.PoolMaxConns)
}

func TestLoadTuning_Invalid(t *testing.T) {
	t.Setenv("DB_QUERY_TIMEOUT", "soon")

	_, err := LoadTuning()

	assert.Error(t, err)
}
