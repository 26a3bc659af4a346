// Package markup converts chapter HTML returned by the platform into the
// forms the document serializers need: plain text for text output and a
// sanitized XHTML fragment for EPUB sections.
package markup
