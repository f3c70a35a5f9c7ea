package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad library path, unreadable config, missing cache)
	ExitDataError   = 3 // Data error (unreadable index, graph check failures)
)
