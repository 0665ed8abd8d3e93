// Package logger wraps zap to offer a global sugared logger with a console
// encoder, context helpers (ToContext/FromContext/WithName/WithKV), level
// parsing, and convenience functions (Infof, ErrorKV, etc.).
//
// Every deploy step accepts a context and extracts its logger from it.
package logger
