// Package render projects a scalar field over mesh geometry into colored
// primitives for one time step.
//
//   - [Renderer]: owns the geometry and the preloaded field set, and rebuilds
//     a [Frame] whenever the time step or the active variable changes
//   - [Frame]: colored points, segments and quads plus the range they were
//     colored against, ready for any drawing backend
//   - [Animator]: advances the time step on a fixed interval, wrapping at the
//     last step
//
// # Example
//
//	r := render.New(render.WithLogger(log))
//	rep, err := r.Load(slices.Values(nodes), slices.Values(rows), fields)
//	r.Observe(render.ObserverFunc(func(f *render.Frame) { draw(f) }))
//	err = r.SetTimeStep(3)
//
// # Thread Safety
//
// Renderer methods may be called from several goroutines; each call replaces
// the previous frame. Frames handed out are never mutated afterwards.
package render
