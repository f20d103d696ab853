package server

// Server is the lifecycle contract the entrypoint drives: RunServer blocks
// until a stop signal arrives, Shutdown drains in-flight console requests
// before the listener closes.
type Server interface {
	RunServer()
	Shutdown()
}
