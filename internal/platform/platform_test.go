package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubImplementation struct {
	target Platform
	ran    bool
}

func (s *stubImplementation) TargetSystem() Platform {
	return s.target
}

func (s *stubImplementation) Run(context.Context) error {
	s.ran = true
	return nil
}

func redirectTo(p Platform) Factory {
	return func() (Implementation, error) {
		return Redirect(p), nil
	}
}

// TestFromGOOS maps runtime names to platforms.
func TestFromGOOS(t *testing.T) {
	t.Parallel()

	require.Equal(t, Linux, FromGOOS("linux"))
	require.Equal(t, Mac, FromGOOS("darwin"))
	require.Equal(t, Windows, FromGOOS("windows"))
	require.Equal(t, Posix, FromGOOS("freebsd"))
}

// TestResolve_Direct returns an implementation targeting its own platform.
func TestResolve_Direct(t *testing.T) {
	t.Parallel()

	posix := &stubImplementation{target: Posix}

	r := NewRegistry()
	r.Register(Posix, func() (Implementation, error) {
		return posix, nil
	})

	impl, err := r.Resolve(Posix)
	require.NoError(t, err)
	require.Same(t, posix, impl)
}

// TestResolve_Redirect follows linux to posix.
func TestResolve_Redirect(t *testing.T) {
	t.Parallel()

	posix := &stubImplementation{target: Posix}

	r := NewRegistry()
	r.Register(Linux, redirectTo(Posix))
	r.Register(Posix, func() (Implementation, error) {
		return posix, nil
	})

	impl, err := r.Resolve(Linux)
	require.NoError(t, err)
	require.Same(t, posix, impl)
	require.NoError(t, impl.Run(context.Background()))
	require.True(t, posix.ran)
	require.Equal(t, []Platform{Linux, Posix}, r.Platforms())
}

// TestResolve_Missing fails on an unregistered platform, directly or after a redirect.
func TestResolve_Missing(t *testing.T) {
	t.Parallel()

	var r Registry

	_, err := r.Resolve(Windows)
	require.ErrorIs(t, err, ErrNoImplementation)

	r.Register(Mac, redirectTo(Posix))

	_, err = r.Resolve(Mac)
	require.ErrorIs(t, err, ErrNoImplementation)
}

// TestResolve_FactoryError wraps the factory failure.
func TestResolve_FactoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	r := NewRegistry()
	r.Register(Posix, func() (Implementation, error) {
		return nil, boom
	})

	_, err := r.Resolve(Posix)
	require.ErrorIs(t, err, ErrNoImplementation)
	require.ErrorIs(t, err, boom)
}

// TestResolve_Cycle stops when two implementations point at each other.
func TestResolve_Cycle(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(Linux, redirectTo(Posix))
	r.Register(Posix, redirectTo(Linux))

	_, err := r.Resolve(Linux)
	require.ErrorIs(t, err, ErrRedirectCycle)
	require.Contains(t, err.Error(), "linux -> posix -> linux")
}
