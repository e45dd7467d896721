// Package backend provides a pluggable registry of atlas surface providers.
//
// A backend owns the storage behind atlas pages: CPU images, GPU textures or
// anything else an application renders from. Backends implement
// atlas.SurfaceProvider plus a small lifecycle (Init, Close) and register a
// Factory under a name.
//
// # Backend Registration
//
// Backends register a Factory and a priority from init() functions. The
// software backend is registered on import:
//
//	import _ "github.com/gogpu/atlas/backend/software"
//
// The native backend needs a device, so it registers itself only when
// native.Register is called with one.
//
// # Backend Selection
//
// Use OpenDefault to get the highest-priority backend that starts, or Open to
// request one by name:
//
//	b, err := backend.OpenDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	a, err := atlas.New(atlas.DefaultConfig(), atlas.WithProvider(b))
//
// # Available Backends
//
//   - "native": wgpu HAL textures, PriorityNative (registered by native.Register)
//   - "software": image.RGBA pages in memory, PrioritySoftware
package backend
