package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell/config"
)

func Test_PostgresDSN_FallsBackToDefault(t *testing.T) {
	t.Setenv(config.PostgresDSNEnvVar, "")

	_, ok := config.LookupPostgresDSN()

	assert.False(t, ok)
	assert.Contains(t, config.PostgresDSN(), "localhost:5432/lendingdesk")
}

func Test_PostgresDSN_ReadsEnvironment(t *testing.T) {
	t.Setenv(config.PostgresDSNEnvVar, "postgres://u:p@db:5433/ledger?sslmode=disable")

	dsn, ok := config.LookupPostgresDSN()

	assert.True(t, ok)
	assert.Equal(t, "postgres://u:p@db:5433/ledger?sslmode=disable", dsn)
	assert.Equal(t, dsn, config.PostgresDSN())
}

func Test_PostgresPGXPoolConfig(t *testing.T) {
	// act
	poolConfig, err := config.PostgresPGXPoolConfig("postgres://u:p@db:5433/ledger?sslmode=disable")

	// assert
	require.NoError(t, err)
	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, "db", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	assert.Equal(t, 5*time.Second, poolConfig.ConnConfig.ConnectTimeout)
}

func Test_PostgresPGXPoolConfig_RejectsInvalidDSN(t *testing.T) {
	_, err := config.PostgresPGXPoolConfig("postgres://u:p@db:notaport/ledger")

	assert.Error(t, err)
}
