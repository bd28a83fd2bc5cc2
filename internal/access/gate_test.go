package access

import (
	"context"
	"database/sql"
	"testing"

	"github.com/fieldlog/fieldlog/internal/common"
	"github.com/fieldlog/fieldlog/internal/store/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupGate(t *testing.T) (*Gate, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE documents (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	return NewGate(records.NewSQLiteRepository(db)), db
}

func TestSetCredential_ThenVerify(t *testing.T) {
	g, _ := setupGate(t)
	ctx := context.Background()

	has, err := g.HasCredential(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, g.SetCredential(ctx, "abcd", "abcd"))

	has, err = g.HasCredential(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	ok, err := g.Verify(ctx, "abcd")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, g.Unlocked())

	ok, err = g.Verify(ctx, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetCredential_TooShortRejectedBeforeIO(t *testing.T) {
	g, _ := setupGate(t)
	ctx := context.Background()

	err := g.SetCredential(ctx, "ab", "ab")
	require.ErrorIs(t, err, common.ErrValidation)

	has, err := g.HasCredential(ctx)
	require.NoError(t, err)
	assert.False(t, has, "no credential may be stored after a rejected set")
}

func TestSetCredential_LengthCountsRunesNotBytes(t *testing.T) {
	g, _ := setupGate(t)
	ctx := context.Background()

	// three runes, nine bytes: still too short
	err := g.SetCredential(ctx, "€€€", "€€€")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Passcode must be at least 4 characters", err.Error())

	// four runes pass regardless of byte length
	require.NoError(t, g.SetCredential(ctx, "€€€€", "€€€€"))

	ok, err := g.Verify(ctx, "€€€€")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetCredential_ConfirmMismatch(t *testing.T) {
	g, _ := setupGate(t)
	ctx := context.Background()

	err := g.SetCredential(ctx, "abcd", "abce")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Passcodes do not match", err.Error())

	has, err := g.HasCredential(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestVerify_NoCredentialIsFalse(t *testing.T) {
	g, _ := setupGate(t)

	ok, err := g.Verify(context.Background(), "abcd")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, g.Unlocked())
}

func TestSignOut_RelocksWithoutClearing(t *testing.T) {
	g, _ := setupGate(t)
	ctx := context.Background()

	require.NoError(t, g.SetCredential(ctx, "abcd", ""))
	ok, err := g.Verify(ctx, "abcd")
	require.NoError(t, err)
	require.True(t, ok)

	g.SignOut()
	assert.False(t, g.Unlocked())

	// credential survives
	ok, err = g.Verify(ctx, "abcd")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetCredential_OverwritesNotVersions(t *testing.T) {
	g, _ := setupGate(t)
	ctx := context.Background()

	require.NoError(t, g.SetCredential(ctx, "abcd", ""))
	require.NoError(t, g.SetCredential(ctx, "efgh", ""))

	ok, err := g.Verify(ctx, "abcd")
	require.NoError(t, err)
	assert.False(t, ok, "old passcode must not verify after a reset")

	ok, err = g.Verify(ctx, "efgh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClearCredential(t *testing.T) {
	g, _ := setupGate(t)
	ctx := context.Background()

	require.NoError(t, g.SetCredential(ctx, "abcd", ""))
	require.NoError(t, g.ClearCredential(ctx))

	has, err := g.HasCredential(ctx)
	require.NoError(t, err)
	assert.False(t, has)
	assert.False(t, g.Unlocked())
}

func TestStoredDigestIsNotCleartext(t *testing.T) {
	g, db := setupGate(t)
	ctx := context.Background()

	require.NoError(t, g.SetCredential(ctx, "abcd", ""))

	var value string
	require.NoError(t, db.QueryRow(`SELECT value FROM documents WHERE key='passcode_digest'`).Scan(&value))
	assert.NotContains(t, value, "abcd")
	assert.Len(t, value, 64, "hex-encoded sha256")
}
