// Package textutil renders story titles into filesystem-safe file names.
package textutil
