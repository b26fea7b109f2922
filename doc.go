// Package tilearray is the root-level facade over tile, the substantive
// implementation package, mirroring the teacher repo's own
// root-package-wraps-subpackage layout (github.com/.../go-zarr's root
// zarr package is a thin Reader atop the richer zarr/zarr.Dataset
// subpackage). tilearray pre-wires the bundled internal/schunk codec so
// callers who don't need a custom Container implementation never import
// tile or internal/schunk directly.
package tilearray
