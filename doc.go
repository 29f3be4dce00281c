// Package gpuscale is a GPU resource cache and image rescale pipeline for
// video processing hosts.
//
// # Overview
//
// A host that rescales frames many times per second should not allocate
// and destroy textures, render targets and shader pipelines on every
// frame. gpuscale keeps them in per-profile pools:
//
//   - a texture pool keyed by (width, height, format)
//   - a frame buffer pool keyed by (width, height)
//   - a single growable pixel transfer buffer
//   - a shader cache keyed by program name
//
// Resources are acquired, used and released back to their pool; they are
// destroyed only when the Environment is closed.
//
// # Quick Start
//
//	import _ "github.com/gogpu/wgpu/hal/allbackends"
//
//	ctx, err := gpuscale.OpenContext(gpuscale.ConfigFromEnv())
//	if err != nil { ... }
//	defer ctx.Close()
//
//	reg := gpuscale.NewRegistry(nil)
//	defer reg.Close()
//
//	env, err := reg.GetOrCreate(profile, ctx)
//	if errors.Is(err, gpuscale.ErrUnsupported) {
//	    // fall back to the CPU
//	}
//	src, _ := env.UploadImage(frame)
//	dst, err := env.RescaleBicubic(src, 1920, 1080, 1280, 720, gpuscale.SplineCatmullRom)
//	...
//	env.Textures().Release(dst)
//	env.Textures().Release(src)
//
// # Rescaling
//
// RescaleBilinear draws one quad through a linear sampler. RescaleBicubic
// runs two passes, horizontal then vertical, each taking four taps whose
// weights come from a precomputed lookup texture holding the Catmull-Rom
// and cosine kernels.
//
// # Threading
//
// An Environment is bound to one Context and must be used from one
// goroutine at a time. Nothing in an Environment locks.
package gpuscale
