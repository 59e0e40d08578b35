package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autogest-api/pkg/password"
)

func TestHashYVerify(t *testing.T) {
	h, err := password.Hash("senha-segura-1")
	require.NoError(t, err)
	assert.NotContains(t, h, "senha-segura-1", "el hash nunca contiene el texto plano")

	assert.True(t, password.Verify("senha-segura-1", h))
	assert.False(t, password.Verify("senha-errada", h))
}

func TestHash_RechazaCortaYLarga(t *testing.T) {
	_, err := password.Hash("corta")
	assert.Error(t, err)

	_, err = password.Hash(strings.Repeat("x", 100))
	assert.Error(t, err, "bcrypt no acepta más de 72 bytes")
}

func TestVerify_HashVacioOCorrupto(t *testing.T) {
	assert.False(t, password.Verify("qualquer", ""))
	assert.False(t, password.Verify("qualquer", "no-es-bcrypt"))
}
