// Package document defines the assembled story model and the serializers that
// render it to disk formats.
//
// A Serializer owns two format specific steps: PrepareBody turns the raw
// chapter HTML into the body representation the format stores, and Write
// renders the finished Story. The assembler drives both without knowing which
// format it is producing.
//
// Chapters carry two positions. Index is the chapter's place in the full part
// list reported by the platform, drafts and deleted parts included, and is the
// number shown in text headers. Position counts only the chapters that made it
// into the document and names EPUB section files.
package document
