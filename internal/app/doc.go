// Package app wires the WQ Grid service together: configuration, logging,
// the upload pipeline, HTTP routing and middleware, and graceful shutdown.
package app
