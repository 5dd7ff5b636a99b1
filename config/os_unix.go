//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// reservedNameRunes may not appear in a single path element.
const reservedNameRunes = "/:\x00"

// colorOutput reports whether log lines written to stream may be colorized.
func colorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
