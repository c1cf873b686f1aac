/*
Package ports defines the driven ports (interfaces) of the wanderbuddy core.

These interfaces decouple the session and package orchestration logic from
concrete implementations, so the core works against any durable store and any
transport to the travel backend, including fakes in tests.

# Key Interfaces

  - KeyValueStore: durable get/set/remove on string keys (memory, file, redis).
  - Backend: the travel backend contract (auth, profile, packages, itineraries).
*/
package ports
