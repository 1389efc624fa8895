// Package registry persists the mod registry as a single JSON document.
//
// Loading tries an ordered chain of format parsers (current schema, then
// the two historical layouts) and re-saves anything that was not already
// current. Every load-mutate-save sequence goes through Store.Update,
// which serializes callers per registry file so concurrent mutations
// cannot lose each other's writes.
package registry
