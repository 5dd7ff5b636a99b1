package state

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/text/encoding/ianaindex"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:    time.Now(),
		Suffix:   ".min.css",
		Parallel: runtime.NumCPU(),
	}
}

// ApplyConfig copies configured defaults into environment. Command line
// flags are applied afterwards by the caller.
func (e *LocalEnv) ApplyConfig() error {
	if e.Cfg == nil {
		return nil
	}
	e.Options = e.Cfg.Wring.Options()
	e.Overwrite = e.Cfg.Output.Overwrite
	if len(e.Cfg.Output.Suffix) > 0 {
		e.Suffix = e.Cfg.Output.Suffix
	}
	if e.Cfg.Output.Parallel > 0 {
		e.Parallel = e.Cfg.Output.Parallel
	}
	return e.SetCodePage(e.Cfg.Output.Charset)
}

// SetCodePage selects encoding for inputs without @charset. Empty name resets
// to UTF-8.
func (e *LocalEnv) SetCodePage(name string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		e.CodePage = nil
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return fmt.Errorf("unknown character set '%s': %w", name, err)
	}
	if enc == nil {
		return fmt.Errorf("unsupported character set '%s'", name)
	}
	e.CodePage = enc
	return nil
}
