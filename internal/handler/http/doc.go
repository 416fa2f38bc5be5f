// Package http implements the HTTP transport layer of golden-glimpses.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API and the countdown websocket. Field aliases sent by older clients are
// folded into canonical commands here, and responses are built from capsule
// views with their derived visibility fields. Authentication, request
// tracing, access logging and response compression are handled in this
// package before requests are delegated to the service layer.
package http
