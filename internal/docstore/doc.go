// Package docstore provides the abstract document store the resolution
// pipeline runs against: named collections of flat field maps, queried
// with ANDed equality/inequality filters and written with server-assigned
// ids and timestamps.
//
// Two implementations ship: BadgerStore (embedded, persistent) and
// MemoryStore (in-process, for tests). Both support CreateUnique, a
// conditional insert guarded by a uniqueness key, which the entity
// creator uses so concurrent resolutions converge on one record.
package docstore
