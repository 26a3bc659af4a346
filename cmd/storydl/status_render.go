package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 12
	statusIndent     = "  "
)

var statusStyles = [...]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"FAILED", ansiRed},
}

func (k statusKind) label() string {
	if k < 0 || int(k) >= len(statusStyles) {
		return statusStyles[statusInfo].label
	}
	return statusStyles[k].label
}

func (k statusKind) paint(s string, colorize bool) string {
	if !colorize || k < 0 || int(k) >= len(statusStyles) {
		return s
	}
	return statusStyles[k].color + s + ansiReset
}

// renderStatusLine formats one summary row. Labels longer than the column
// push the status right instead of being truncated.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	var b strings.Builder
	b.WriteString(statusIndent)
	fmt.Fprintf(&b, "%-*s [%s]", statusLabelWidth, label+":", kind.label())
	if message != "" {
		b.WriteByte(' ')
		b.WriteString(message)
	}
	return kind.paint(b.String(), colorize)
}

func renderSectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(line))
	return []string{statusInfo.paint(line, colorize), statusInfo.paint(rule, colorize)}
}

// shouldColorize reports whether w is a terminal and NO_COLOR is empty.
func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
