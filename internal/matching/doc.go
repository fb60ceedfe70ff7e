// Package matching implements the cross-tenant company resolution
// cascade: given independently observed candidate variants describing
// one real-world organization, decide whether a tenant-owned company
// record already represents it — and which one, with what confidence and
// evidence — or create a new record.
//
// The cascade is strictly ordered and always terminates in a match, a
// creation, or the none result:
//
//	signals → pool load → pattern analysis → fuzzy name → exact name →
//	deferred pattern evidence → create
//
// Curated (shared reference) records are classified out of the pool at
// load time and are never matching or mutation targets. Resolution is
// tenant-local; no global uniqueness is attempted.
package matching
