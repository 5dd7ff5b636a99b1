// Package wring implements CSS minification over a stylesheet tree: values,
// selectors and at-rule parameters are rewritten into their shortest
// equivalent form while redundant nodes are removed.
package wring

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cssw/css"
)

// Options control optional behavior. Zero value is the default.
type Options struct {
	// PreserveHacks keeps legacy browser hacks (*prop, _prop, prop/**/:)
	// instead of removing them.
	PreserveHacks bool
	// RemoveAllComments removes "/*!" comments as well. Source map
	// annotations are always kept.
	RemoveAllComments bool
}

// Stats counts nodes removed during a single Process call.
type Stats struct {
	Comments     int
	Declarations int
	Duplicates   int
	Rules        int
	AtRules      int
}

// Total returns number of removed nodes.
func (s Stats) Total() int {
	return s.Comments + s.Declarations + s.Duplicates + s.Rules + s.AtRules
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("comments", s.Comments)
	enc.AddInt("declarations", s.Declarations)
	enc.AddInt("duplicates", s.Duplicates)
	enc.AddInt("rules", s.Rules)
	enc.AddInt("at-rules", s.AtRules)
	return nil
}

// Wringer applies minification passes to stylesheets. It is not safe for
// concurrent use, create one per goroutine.
type Wringer struct {
	opts  Options
	log   *zap.Logger
	sheet *css.Stylesheet
	stats Stats
}

// New creates a Wringer with immutable options.
func New(log *zap.Logger, opts Options) *Wringer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Wringer{opts: opts, log: log.Named("wring")}
}

// Options returns options the Wringer was created with.
func (w *Wringer) Options() Options {
	return w.opts
}

// Stats returns counters of the last Process call.
func (w *Wringer) Stats() Stats {
	return w.stats
}

// Process minifies sheet in place and returns it. Passes run in fixed order:
// comments, declarations, rules, top level filtering, at-rules.
func (w *Wringer) Process(sheet *css.Stylesheet) *css.Stylesheet {
	if sheet == nil {
		return nil
	}
	w.sheet, w.stats = sheet, Stats{}
	defer func() { w.sheet = nil }()

	root := sheet.Node(sheet.Root())
	root.Raws.Semicolon = false
	root.Raws.After = ""

	sheet.Walk(css.KindComment, w.wringComment)
	sheet.Walk(css.KindDecl, func(id css.NodeID) {
		if !w.wringDecl(sheet.Node(id), w.opts) {
			w.remove(id)
		}
	})
	sheet.Walk(css.KindRule, w.wringRule)
	w.filterTopLevel()
	// children first, so emptied blocks are seen by their parents
	sheet.WalkPost(css.KindAtRule, w.wringAtRule)

	w.log.Debug("Stylesheet wrung", zap.Inline(w.stats))
	return sheet
}

// remove detaches node and accounts for it.
func (w *Wringer) remove(id css.NodeID) {
	switch w.sheet.Node(id).Kind {
	case css.KindComment:
		w.stats.Comments++
	case css.KindDecl:
		w.stats.Declarations++
	case css.KindRule:
		w.stats.Rules++
	case css.KindAtRule:
		w.stats.AtRules++
	}
	w.sheet.Remove(id)
}

// String parses data, minifies it and returns resulting CSS text.
func String(log *zap.Logger, opts Options, data []byte) (string, error) {
	sheet, err := css.NewParser(log).Parse(data)
	if err != nil {
		return "", fmt.Errorf("unable to parse stylesheet: %w", err)
	}
	return New(log, opts).Process(sheet).String(), nil
}
