package keypair

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	kp, err := Generate(nil)
	require.NoError(t, err)

	got, err := Static(kp).KeyPair(context.Background())
	require.NoError(t, err)
	assert.Same(t, kp, got)

	_, err = Static(nil).KeyPair(context.Background())
	assert.ErrorIs(t, err, ErrNoKeyPair)
}

func TestLazy(t *testing.T) {
	t.Run("resolves once under concurrency", func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		src := Lazy(func(ctx context.Context) (*KeyPair, error) {
			calls.Add(1)
			<-release
			return Generate(nil)
		})

		var wg sync.WaitGroup
		results := make([]*KeyPair, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				kp, err := src.KeyPair(context.Background())
				assert.NoError(t, err)
				results[i] = kp
			}(i)
		}
		close(release)
		wg.Wait()

		assert.True(t, src.Resolved())
		for _, kp := range results {
			assert.Same(t, results[0], kp)
		}

		_, err := src.KeyPair(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries after failure", func(t *testing.T) {
		boom := errors.New("boom")
		attempts := 0
		src := Lazy(func(ctx context.Context) (*KeyPair, error) {
			attempts++
			if attempts == 1 {
				return nil, boom
			}
			return Generate(nil)
		})

		_, err := src.KeyPair(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.False(t, src.Resolved())

		kp, err := src.KeyPair(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, kp)
		assert.Equal(t, 2, attempts)
	})

	t.Run("nil key pair is an error", func(t *testing.T) {
		src := Lazy(func(ctx context.Context) (*KeyPair, error) { return nil, nil })
		_, err := src.KeyPair(context.Background())
		assert.ErrorIs(t, err, ErrNoKeyPair)
	})

	t.Run("generated", func(t *testing.T) {
		src := Generated()
		a, err := src.KeyPair(context.Background())
		require.NoError(t, err)
		b, err := src.KeyPair(context.Background())
		require.NoError(t, err)
		assert.Same(t, a, b)
	})
}
