// Package server wires and runs the application's transport servers.
//
// It binds the HTTP capsule API and the gRPC health endpoint, runs them
// side by side and shuts both down gracefully once the run context ends.
// Signal handling belongs to the caller.
package server
