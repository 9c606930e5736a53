// Package logger provides structured logging for invokit on top of
// zerolog.
//
// The launchers log at debug level (argv, invocation ids, exit metadata)
// and the sync launcher routes its diagnostics through the error level.
// Configuration comes from an explicit Config or from INVOKIT_LOG_*
// environment variables; the zero configuration logs human-readable
// console output at info level.
package logger
