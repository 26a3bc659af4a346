// Package logging builds the slog loggers used across storydl.
//
// Console output is one line per record with the component and story id in
// the prefix; JSON output is one object per line. WithContext copies run,
// story, stage and correlation ids from a context onto a logger.
package logging
