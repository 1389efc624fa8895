// Package testutil provides utilities for testing fmm components.
//
// Key components:
//   - GameEnvironment: a game root, a payload area and a registry store
//     wired together, either in memory or in a temp directory
//   - FileTree: declarative directory layouts
//   - Payload helpers that write an extracted mod and build its manifest
//   - Filesystem assertions on top of testify
//
// Usage guidelines:
//   - Use EnvIsolated for anything that renames directories; EnvMemoryOnly
//     is enough for file-level work
//   - All test data should be defined inline, not in external files
//   - Each test should be completely isolated with no shared state
package testutil
