package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// Platform identifies an operating system family.
type Platform string

const (
	// Posix is the generic Unix-like family.
	Posix Platform = "posix"
	// Linux is Linux proper.
	Linux Platform = "linux"
	// Mac is macOS.
	Mac Platform = "mac"
	// Windows is Microsoft Windows.
	Windows Platform = "windows"
)

var (
	// ErrNoImplementation is returned when no deploy implementation is registered or it fails to load.
	ErrNoImplementation = errors.New("no valid deploy implementation found")
	// ErrRedirectCycle is returned when implementations redirect back to a system already visited.
	ErrRedirectCycle = errors.New("deploy implementations redirect in a cycle")
)

// Current maps runtime.GOOS to a Platform.
func Current() Platform {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to a Platform. Unknown systems are treated as Posix.
func FromGOOS(goos string) Platform {
	switch goos {
	case "linux", "android":
		return Linux
	case "darwin", "ios":
		return Mac
	case "windows":
		return Windows
	default:
		return Posix
	}
}

// Implementation deploys for one platform.
type Implementation interface {
	// TargetSystem is the platform this implementation really deploys for.
	TargetSystem() Platform
	// Run executes the deploy.
	Run(ctx context.Context) error
}

// Factory constructs an Implementation.
type Factory func() (Implementation, error)

// Registry holds the known implementations. The zero value is ready to use.
type Registry struct {
	mu        sync.RWMutex
	factories map[Platform]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[Platform]Factory),
	}
}

// Register binds a factory to a platform, replacing any previous binding.
func (r *Registry) Register(p Platform, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.factories == nil {
		r.factories = make(map[Platform]Factory)
	}

	r.factories[p] = f
}

// Platforms lists the registered platforms in sorted order.
func (r *Registry) Platforms() []Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]Platform, 0, len(r.factories))
	for p := range r.factories {
		platforms = append(platforms, p)
	}

	slices.Sort(platforms)

	return platforms
}

// Resolve loads the implementation for start and follows its target system until an
// implementation targets the platform it was registered for.
func (r *Registry) Resolve(start Platform) (Implementation, error) {
	visited := []Platform{}
	system := start

	for {
		if slices.Contains(visited, system) {
			return nil, fmt.Errorf("%w: %s", ErrRedirectCycle, joinPath(append(visited, system)))
		}

		visited = append(visited, system)

		impl, err := r.load(system)
		if err != nil {
			return nil, err
		}

		target := impl.TargetSystem()
		if target == system {
			return impl, nil
		}

		system = target
	}
}

func (r *Registry) load(system Platform) (Implementation, error) {
	r.mu.RLock()
	factory, ok := r.factories[system]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoImplementation, system)
	}

	impl, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoImplementation, system, err)
	}

	if impl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoImplementation, system)
	}

	return impl, nil
}

func joinPath(path []Platform) string {
	names := make([]string, len(path))
	for i, p := range path {
		names[i] = string(p)
	}

	return strings.Join(names, " -> ")
}

// Redirect is an Implementation that only forwards to another platform.
type Redirect Platform

// TargetSystem implements Implementation.
func (r Redirect) TargetSystem() Platform {
	return Platform(r)
}

// Run is never reached through Resolve because a redirect never targets itself.
func (r Redirect) Run(context.Context) error {
	return fmt.Errorf("%w: %s is a redirect", ErrNoImplementation, Platform(r))
}
