// Package platform provides the HTTP session used to talk to the content
// platform's private API.
//
// The Client sends GET requests carrying a configured User-Agent header,
// optionally through an outbound HTTP or SOCKS5 proxy, and exposes the four
// endpoints storydl needs: story metadata, chapter info, chapter text, and the
// categories table. Transport failures and non-2xx statuses surface as
// services.ErrFetch; undecodable or incomplete payloads surface as
// services.ErrMalformedResponse. Options allow tests to supply an httptest
// client without modifying production code.
package platform
