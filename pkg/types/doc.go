// Package types holds the data model shared by every fmm package: the
// persisted registry of mods, the install manifest handed over by the
// installer, the filesystem interface and the operation event stream.
//
// Nothing in this package performs I/O. Registry helpers are plain slice
// manipulation so the reconciler can stay a pure function.
package types
