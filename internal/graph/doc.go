// Package graph provides the container that owns all nodes and connections.
//
// The container is the engine's single external collaborator: it stores
// edges, answers the node package's topology queries (producer resolution,
// consumer listing), severs connections, and hosts the disposal arena that
// releases entity duplicates handed out on reads.
//
// Structural mutation is where evaluation state and topology meet: making or
// breaking a connection recomputes the consumer's mirrored slot types and
// cascades a cache reset through everything downstream of the touched node.
//
// The container shares the engine's concurrency contract: one logical thread
// of control, no locking. Connection callbacks re-enter the container (a
// node severing a slot during removal, a reset walking consumers), which a
// mutex would deadlock on.
package graph
