package keypair

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

var ErrNoKeyPair = errors.New("key pair resolver returned nil")

// Source hands out a key pair, possibly resolving it on first use.
type Source interface {
	KeyPair(ctx context.Context) (*KeyPair, error)
}

type staticSource struct {
	kp *KeyPair
}

// Static wraps an already available key pair.
func Static(kp *KeyPair) Source {
	return staticSource{kp: kp}
}

func (s staticSource) KeyPair(context.Context) (*KeyPair, error) {
	if s.kp == nil {
		return nil, ErrNoKeyPair
	}
	return s.kp, nil
}

// ResolveFunc obtains a key pair, e.g. by generating or loading one.
type ResolveFunc func(ctx context.Context) (*KeyPair, error)

// LazySource resolves its key pair once. Concurrent callers share a single
// in-flight resolution; a failed resolution is retried on the next call.
type LazySource struct {
	resolve ResolveFunc

	mu sync.RWMutex
	kp *KeyPair

	group singleflight.Group
}

// Lazy returns a Source backed by resolve.
func Lazy(resolve ResolveFunc) *LazySource {
	return &LazySource{resolve: resolve}
}

// Generated returns a Source that generates a fresh key pair on first use.
func Generated() *LazySource {
	return Lazy(func(context.Context) (*KeyPair, error) {
		return Generate(nil)
	})
}

func (s *LazySource) KeyPair(ctx context.Context) (*KeyPair, error) {
	if kp := s.cached(); kp != nil {
		return kp, nil
	}

	v, err, _ := s.group.Do("keypair", func() (any, error) {
		if kp := s.cached(); kp != nil {
			return kp, nil
		}
		kp, err := s.resolve(ctx)
		if err != nil {
			return nil, err
		}
		if kp == nil {
			return nil, ErrNoKeyPair
		}
		s.mu.Lock()
		s.kp = kp
		s.mu.Unlock()
		return kp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*KeyPair), nil
}

// Resolved reports whether the key pair has been obtained.
func (s *LazySource) Resolved() bool {
	return s.cached() != nil
}

func (s *LazySource) cached() *KeyPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kp
}
