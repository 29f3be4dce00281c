package gpuscale

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestPropertyStore(t *testing.T) {
	s := NewPropertyStore()
	var destroyed []string

	s.SetData("a", 1, func() { destroyed = append(destroyed, "a") })
	s.SetData("b", 2, func() { destroyed = append(destroyed, "b") })
	if v, ok := s.GetData("a"); !ok || v != 1 {
		t.Errorf("GetData(a) = %v, %v", v, ok)
	}
	if _, ok := s.GetData("missing"); ok {
		t.Error("GetData found a missing key")
	}

	s.SetData("a", 3, func() { destroyed = append(destroyed, "a2") })
	if len(destroyed) != 1 || destroyed[0] != "a" {
		t.Errorf("replacing a value destroyed %v, want [a]", destroyed)
	}

	s.SetData("c", 4, nil)
	s.SetData("c", nil, nil)
	if _, ok := s.GetData("c"); ok {
		t.Error("nil value did not remove the key")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}

	destroyed = nil
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(destroyed, ",") != "a2,b" {
		t.Errorf("Close destroyed %v, want newest first [a2 b]", destroyed)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after Close", s.Len())
	}
}

func TestRegistryGetOrCreate(t *testing.T) {
	ctx := createNoopContext(t)
	reg := NewRegistry(nil)
	profile := &Profile{Description: "HD 1080p 25 fps", Width: 1920, Height: 1080, FrameRateNum: 25, FrameRateDen: 1}

	if reg.Get(profile) != nil {
		t.Fatal("Get created an environment")
	}
	env, err := reg.GetOrCreate(profile, ctx)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	again, err := reg.GetOrCreate(profile, ctx, WithMaxListCount(1))
	if err != nil {
		t.Fatal(err)
	}
	if again != env {
		t.Error("second GetOrCreate created another environment")
	}
	if reg.Get(profile) != env {
		t.Error("Get did not return the registered environment")
	}

	other, err := reg.GetOrCreate(&Profile{Width: 720, Height: 576}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if other == env {
		t.Error("distinct profiles share an environment")
	}

	if err := reg.Close(); err != nil {
		t.Fatal(err)
	}
	if !env.Closed() || !other.Closed() {
		t.Error("registry Close did not destroy its environments")
	}
	if reg.Get(profile) != nil {
		t.Error("environment still registered after Close")
	}
}

func TestRegistryUnsupported(t *testing.T) {
	ctx := createNoopContext(t)
	ctx.Extensions = strings.ReplaceAll(ctx.Extensions, "GL_"+ExtPixelBufferObject, "")
	store := NewPropertyStore()
	reg := NewRegistry(store)

	env, err := reg.GetOrCreate(&Profile{}, ctx)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if env != nil {
		t.Error("environment returned for unsupported context")
	}
	if store.Len() != 0 {
		t.Errorf("store holds %d values, want 0", store.Len())
	}
}

func TestRegistryKey(t *testing.T) {
	reg := NewRegistry(nil)
	a, b := &Profile{}, &Profile{}
	if reg.Key(a) == reg.Key(b) {
		t.Error("distinct profiles share a key")
	}
	if !strings.HasPrefix(reg.Key(a), "gpuscale-") {
		t.Errorf("Key = %q", reg.Key(a))
	}
	if reg.Key(a) != reg.Key(a) {
		t.Error("Key is not stable")
	}
}

func registerTransientProfile(t *testing.T, reg *Registry, ctx *Context) *Environment {
	t.Helper()
	env, err := reg.GetOrCreate(&Profile{Description: "transient"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestRegistryDroppedProfileKeepsKey(t *testing.T) {
	ctx := createNoopContext(t)
	reg := NewRegistry(nil)
	defer reg.Close()
	old := registerTransientProfile(t, reg, ctx)

	runtime.GC()
	runtime.GC()
	for i := range 1000 {
		p := &Profile{Width: i}
		if env := reg.Get(p); env != nil {
			t.Fatalf("fresh profile %d (key %s) received another profile's environment", i, reg.Key(p))
		}
	}
	if old.Closed() {
		t.Error("environment of an unreferenced profile was torn down")
	}
}

func TestRegistryIgnoresForeignValue(t *testing.T) {
	ctx := createNoopContext(t)
	store := NewPropertyStore()
	reg := NewRegistry(store)
	defer reg.Close()
	profile := &Profile{Description: "PAL"}

	stale, err := NewEnvironment(ctx)
	if err != nil {
		t.Fatal(err)
	}
	store.SetData(reg.Key(profile), stale, stale.Close)
	if env := reg.Get(profile); env != nil {
		t.Fatal("Get returned a value not registered for the profile")
	}

	env, err := reg.GetOrCreate(profile, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if env == stale {
		t.Error("GetOrCreate reused the foreign value")
	}
	if !stale.Closed() {
		t.Error("replaced value was not destroyed")
	}
	if reg.Get(profile) != env || store.Len() != 1 {
		t.Errorf("registry holds %d values after replacement", store.Len())
	}
}

func TestProfileString(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.String() == "" {
		t.Error("nil profile should still describe itself")
	}
	p := &Profile{Description: "PAL", Width: 720, Height: 576, FrameRateNum: 25, FrameRateDen: 1}
	if !strings.Contains(p.String(), "720x576") {
		t.Errorf("String = %q", p.String())
	}
}
