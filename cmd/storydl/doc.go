// Command storydl downloads stories as text or EPUB documents.
//
// Usage:
//
//	storydl [reference...]
//	storydl fetch [--format txt|epub] [--output DIR] [reference...]
//	storydl resolve [reference...]
//	storydl categories
//	storydl history [--limit N] [--story ID]
//	storydl config init|validate|show
//
// References are story or chapter URLs, or bare ids. With no arguments and a
// non-terminal stdin, references are read one per line. Results go to stdout
// and logs to stderr. The exit status is 1 when any reference failed.
package main
