package config

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrPackageNotConfigured = errors.New("package name has not been configured")
	ErrAlreadyConfigured    = errors.New("package name is already configured")
)

// PackageRegistry holds the Java package name exported functions are
// renamed into. Configure it once, before any expansion reads it; reads
// may run concurrently.
type PackageRegistry struct {
	mu   sync.RWMutex
	name string
	set  bool
}

// Set stores name. Setting the name that is already stored is a no-op.
func (r *PackageRegistry) Set(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.set {
		if r.name == name {
			return nil
		}
		return fmt.Errorf("%w: %q, not %q", ErrAlreadyConfigured, r.name, name)
	}
	r.name = name
	r.set = true
	return nil
}

func (r *PackageRegistry) Get() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.set {
		return "", ErrPackageNotConfigured
	}
	return r.name, nil
}

var global PackageRegistry

// SetPackageName configures the process-wide registry.
func SetPackageName(name string) error {
	return global.Set(name)
}

// PackageName reads the process-wide registry.
func PackageName() (string, error) {
	return global.Get()
}

// Global returns the process-wide registry.
func Global() *PackageRegistry {
	return &global
}
