package keypair

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yolodolo42/testwallet/internal/testutil"
)

func TestMarshal(t *testing.T) {
	t.Run("writes plain byte array", func(t *testing.T) {
		kp, err := FromSeed(make([]byte, SeedSize))
		require.NoError(t, err)

		raw, err := Marshal(kp)
		require.NoError(t, err)
		assert.Equal(t, byte('['), raw[0])
		assert.Contains(t, string(raw), "[0,0,0,")

		loaded, err := Unmarshal(raw)
		require.NoError(t, err)
		assert.Equal(t, kp.PublicKey(), loaded.PublicKey())
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		_, err := Unmarshal([]byte(`[256]`))
		assert.ErrorIs(t, err, ErrInvalidSecretKey)
	})

	t.Run("rejects non array", func(t *testing.T) {
		_, err := Unmarshal([]byte(`"abc"`))
		assert.ErrorIs(t, err, ErrInvalidSecretKey)
	})
}

func TestWriteFile(t *testing.T) {
	dir := testutil.TempDir(t)
	kp, err := Generate(nil)
	require.NoError(t, err)

	path := filepath.Join(dir, "nested", FileName(kp.PublicKey()))
	require.NoError(t, WriteFile(path, kp))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), st.Mode().Perm())

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, kp.SecretKey(), loaded.SecretKey())
}

func TestStore(t *testing.T) {
	t.Run("returns empty list initially", func(t *testing.T) {
		s, err := NewStore(testutil.TempDir(t))
		require.NoError(t, err)

		keys, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("creates and lists keys", func(t *testing.T) {
		s, err := NewStore(testutil.TempDir(t))
		require.NoError(t, err)

		kp1, path, err := s.Create()
		require.NoError(t, err)
		assert.Equal(t, FileName(kp1.PublicKey()), filepath.Base(path))

		kp2, _, err := s.Create()
		require.NoError(t, err)

		keys, err := s.List()
		require.NoError(t, err)
		assert.Len(t, keys, 2)
		assert.Contains(t, keys, kp1.PublicKey())
		assert.Contains(t, keys, kp2.PublicKey())
	})

	t.Run("ignores unrelated files", func(t *testing.T) {
		s, err := NewStore(testutil.TempDir(t))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte("[]"), 0600))

		keys, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("imports external file", func(t *testing.T) {
		dir := testutil.TempDir(t)
		s, err := NewStore(dir)
		require.NoError(t, err)

		kp, err := Generate(nil)
		require.NoError(t, err)
		src := filepath.Join(dir, "id.json")
		require.NoError(t, WriteFile(src, kp))

		imported, _, err := s.Import(src)
		require.NoError(t, err)
		assert.Equal(t, kp.PublicKey(), imported.PublicKey())

		loaded, err := s.Load(kp.PublicKey())
		require.NoError(t, err)
		assert.Equal(t, kp.PublicKey(), loaded.PublicKey())
	})

	t.Run("load missing key", func(t *testing.T) {
		s, err := NewStore(testutil.TempDir(t))
		require.NoError(t, err)

		var pk PublicKey
		_, err = s.Load(pk)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}
