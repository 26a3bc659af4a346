// Package services carries the error markers and context values shared by
// the resolver, the assembler and the batch runner.
//
// Failures are tagged with Wrap(marker, ...) and classified with Kind, which
// yields the label stored in history and printed in the summary.
package services
