// Package kernel defines the solid modeling interface used to build proxy
// meshes for a skeleton. The sdfx subpackage implements it.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and meshes solids.
type Kernel interface {
	// Primitives
	Sphere(radius float64) Solid
	Capsule(a, b [3]float64, radius float64) Solid

	// Boolean operations
	Union(solids ...Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
