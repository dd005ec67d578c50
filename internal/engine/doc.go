// Package engine wires the render pipeline behind one facade.
//
// A render is strictly sequential: resolve the inheritance chain, validate
// and normalize inputs, resolve deferred references, compose the build, and
// render the manifest. The engine holds no per-render state, so unrelated
// renders may run concurrently against a shared Engine.
//
// Both the CLI and the HTTP service are thin wrappers over this package.
package engine
