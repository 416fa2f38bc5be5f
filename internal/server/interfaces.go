package server

import "context"

// Server defines the common lifecycle contract for transport servers managed
// by this package.
//
// Implementations bind their listeners on construction, block in
// [Server.RunServer] while serving and release resources in
// [Server.Shutdown].
type Server interface {
	// RunServer serves requests until the server is shut down. A server
	// stopped through Shutdown returns nil.
	RunServer(ctx context.Context) error

	// Shutdown stops the server, waiting for in-flight requests until ctx
	// expires.
	Shutdown(ctx context.Context) error
}
