// Package node implements the per-node evaluation engine: typed slot
// declaration, lazy memoized output generation, the asynchronous readiness
// protocol that gates generation on upstream completion, the forward
// invalidation cascade, dynamic input groups, and slot-type mirroring.
//
// # Collaborators
//
// A Node never stores its own edges. Connection lookups, downstream
// traversal, severing, and disposal registration are delegated to the
// Workspace interface, implemented by the owning graph container. This keeps
// the engine headless: a node is constructible and testable with nothing but
// a Workspace stub and a sched.Loop.
//
// # Concurrency
//
// The engine is single-threaded and cooperative. "Waiting" on upstream
// producers means returning control to the caller and resuming via a task
// posted to the loop when the producer broadcasts readiness. No method
// blocks, and no method is safe for concurrent use.
package node
