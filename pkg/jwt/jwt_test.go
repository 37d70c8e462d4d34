package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "u1", "b1", "admin_sucursal", "sucursales-api", 5)
	require.NoError(t, err)

	userID, branchID, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "b1", branchID)
	assert.Equal(t, "admin_sucursal", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "u1", "", "user", "sucursales-api", 5)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "u1", "", "user", "sucursales-api", -1)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", "", "user", "x", 5)
	assert.Error(t, err)
	_, _, _, err = jwt.Parse("", "a.b.c")
	assert.Error(t, err)
}
