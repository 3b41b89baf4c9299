package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sfcshift/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	violations, err := config.Validate([]byte("convert:\n  from: object\n  plugins: [js-ext]\nwatch:\n  debounce: 250ms\n"))
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = config.Validate([]byte("convert:\n  to: react\nbatch:\n  workers: -2\n  extra: 1\n"))
	require.ErrorIs(t, err, config.ErrSchemaViolation)
	assert.Len(t, violations, 3)

	_, err = config.Validate([]byte("convert: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrSchemaViolation)
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	violations, err := config.ValidateFile(writeConfig(t, "observability:\n  log_level: trace\n"))
	require.ErrorIs(t, err, config.ErrSchemaViolation)
	require.Len(t, violations, 1)
	assert.Equal(t, "observability.log_level", violations[0].Field)

	assert.NotEmpty(t, config.Schema())
}
