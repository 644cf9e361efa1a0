// Package logging wraps log/slog with the cueboard conventions: JSON in
// production, text for development, service and version on every entry,
// and component-tagged child loggers for subsystems.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log secrets, tokens, or the device password. The relay device uses
// Digest authentication; credentials stay inside the HTTP transport.
package logging
