package cli

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: unexpected failures, invariant violations, or any error that
	// doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: missing required flags, invalid flag values, bad arguments,
	// or an invalid configuration.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: unknown opportunity, unknown stage, or a 404 from the backend.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: a pipeline payload the client cannot accept.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: a quick action refused for missing data, e.g. no phone number.
	ExitValidation = 5

	// ExitTransport indicates the backend could not be reached.
	// Use for: connection refused, DNS failures, timeouts.
	ExitTransport = 6

	// ExitRejected indicates the backend answered but refused the request.
	// Use for: non-2xx statuses and success=false envelopes.
	ExitRejected = 7

	// ExitPartial indicates the command did part of its work.
	// Use for: a dashboard with failed sections, or a quick action whose
	// interaction could not be recorded.
	ExitPartial = 8
)
