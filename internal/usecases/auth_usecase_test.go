package usecases

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthUsecase_Login(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	uc := NewAuthUsecase("ops", hash, "jwt-secret")

	token, err := uc.Login("ops", "s3cret!")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("jwt-secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "ops", claims["user_id"])
	assert.Equal(t, "admin", claims["role"])

	_, err = uc.Login("ops", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login("someone", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthUsecase_DisabledWithoutHash(t *testing.T) {
	_, err := NewAuthUsecase("ops", "", "jwt-secret").Login("ops", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("abc")
	assert.Error(t, err)
}
