package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/core/domain"
)

var pair = domain.CredentialPair{Access: "a1", Refresh: "r1"}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	held, err := m.Load(ctx)
	require.NoError(t, err)
	assert.True(t, held.IsZero())

	require.NoError(t, m.Save(ctx, pair))
	held, _ = m.Load(ctx)
	assert.Equal(t, pair, held)

	assert.ErrorIs(t, m.Save(ctx, domain.CredentialPair{Access: "only"}), domain.ErrIncompleteCredentials)
	held, _ = m.Load(ctx)
	assert.Equal(t, pair, held, "a rejected save must not change the pair")

	require.NoError(t, m.Clear(ctx))
	held, _ = m.Load(ctx)
	assert.True(t, held.IsZero())
}

func TestFile_RoundTripAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")

	require.NoError(t, NewFile(path).Save(ctx, pair))

	held, err := NewFile(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair, held)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_LayoutUsesFixedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, NewFile(path).Save(context.Background(), pair))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"a1","refresh_token":"r1"}`, string(data))
}

func TestFile_MissingFileIsEmpty(t *testing.T) {
	held, err := NewFile(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, held.IsZero())
}

func TestFile_IncompleteRecordIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"a1"}`), 0o600))

	held, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, held.IsZero(), "half a pair counts as no pair")
}

func TestFile_CorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	_, err := NewFile(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFile_SaveRejectsIncompletePair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	err := NewFile(path).Save(context.Background(), domain.CredentialPair{Refresh: "r1"})

	assert.ErrorIs(t, err, domain.ErrIncompleteCredentials)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFile_Clear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	f := NewFile(path)
	require.NoError(t, f.Save(ctx, pair))

	require.NoError(t, f.Clear(ctx))
	held, _ := f.Load(ctx)
	assert.True(t, held.IsZero())

	assert.NoError(t, f.Clear(ctx), "clearing twice is fine")
}
