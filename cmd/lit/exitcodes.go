package main

// Exit codes shared by all lit commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing API key, bad policy name)
	ExitDataError   = 3 // Data error (unreadable database, malformed records)
)
