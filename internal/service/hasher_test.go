package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	hash, err := svc.hashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	require.True(t, checkPassword(hash, "secret1"))
	require.False(t, checkPassword(hash, "secret2"))
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	h1, err := svc.hashPassword("secret1")
	require.NoError(t, err)
	h2, err := svc.hashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestHashToken_HandlesLongTokens(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	// JWT заведомо длиннее 72 байт (лимит bcrypt) и с общим префиксом;
	// sha256-свёртка должна сохранить различимость всего токена.
	prefix := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 5)
	tok1 := prefix + "payload-one"
	tok2 := prefix + "payload-two"

	hash, err := svc.hashToken(tok1)
	require.NoError(t, err)

	require.True(t, checkToken(hash, tok1))
	require.False(t, checkToken(hash, tok2))
}
