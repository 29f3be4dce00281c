package gpuscale

import (
	"fmt"
	"io"
)

// Registry maps profiles to their Environment. At most one Environment
// exists per profile; it is created on first request and destroyed when
// the backing Store tears it down.
type Registry struct {
	store Store
}

// NewRegistry creates a registry backed by store. A nil store selects a
// fresh PropertyStore.
func NewRegistry(store Store) *Registry {
	if store == nil {
		store = NewPropertyStore()
	}
	return &Registry{store: store}
}

// Store returns the backing store.
func (r *Registry) Store() Store { return r.store }

// registration is the value stored per profile. Holding the profile keeps
// its address, and therefore its key, from being reused while registered.
type registration struct {
	profile *Profile
	env     *Environment
}

// Key returns the store key for p. The key encodes the profile pointer.
func (r *Registry) Key(p *Profile) string {
	return fmt.Sprintf("gpuscale-%p", p)
}

// Get returns the environment registered for p, or nil. It never creates.
// A value under p's key that was not registered for p itself is ignored.
func (r *Registry) Get(p *Profile) *Environment {
	v, ok := r.store.GetData(r.Key(p))
	if !ok {
		return nil
	}
	reg, ok := v.(*registration)
	if !ok || reg.profile != p {
		return nil
	}
	return reg.env
}

// GetOrCreate returns the environment for p, creating and registering one
// on ctx when none exists. An existing environment is returned unchanged
// and opts are ignored. A stale value under p's key is replaced, which runs
// its destructor.
func (r *Registry) GetOrCreate(p *Profile, ctx *Context, opts ...Option) (*Environment, error) {
	if env := r.Get(p); env != nil {
		return env, nil
	}
	env, err := NewEnvironment(ctx, opts...)
	if err != nil {
		return nil, err
	}
	key := r.Key(p)
	r.store.SetData(key, &registration{profile: p, env: env}, env.Close)
	Logger().Info("gpuscale: environment created", "key", key, "profile", p.String())
	return env, nil
}

// Close tears down the backing store when it supports it.
func (r *Registry) Close() error {
	if c, ok := r.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
