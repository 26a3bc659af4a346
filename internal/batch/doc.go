// Package batch drives the resolve, assemble and record pipeline over a list
// of references.
//
// References are processed one at a time in input order. A failure is logged,
// classified with services.Kind, recorded in history and then the runner moves
// on; only cancellation of the context stops a batch early. Every run gets a
// uuid run id and every reference a correlation id, both carried on the
// context so component logs can be joined back to the history row.
package batch
