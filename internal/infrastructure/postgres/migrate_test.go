package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EmbebidasYOrdenadas(t *testing.T) {
	list, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "001_init", list[0].Version)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Version, list[i].Version)
	}
}

func TestMigrations_ConstraintsUsadasPorElRepositorio(t *testing.T) {
	list, err := Migrations()
	require.NoError(t, err)
	var all strings.Builder
	for _, m := range list {
		all.WriteString(m.SQL)
	}
	sql := all.String()
	assert.Contains(t, sql, constraintCompanyPlate)
	assert.Contains(t, sql, constraintRegistrationNumber)
	assert.Contains(t, sql, "(status = 'SOLD') = (sold_at IS NOT NULL)")
}
