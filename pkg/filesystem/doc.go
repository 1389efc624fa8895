// Package filesystem provides filesystem implementations for fmm.
//
// This package contains implementations of the types.FS interface,
// the standard OS filesystem and an afero-backed one for tests, plus the
// copy, walk and atomic-write helpers the registry and engine share.
package filesystem
