package logger

// Standard field names used across invokit log events.
const (
	FieldComponent    = "component"
	FieldInvocationID = "invocation_id"
	FieldArgv         = "argv"
	FieldPid          = "pid"
	FieldExitCode     = "exit_code"
	FieldSignal       = "signal"
	FieldDuration     = "duration"
)
