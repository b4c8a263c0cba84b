package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/minios-linux/lingokit/jsontree"
	"github.com/minios-linux/lingokit/lingva"
)

// DefaultStringDelay is the pause between two network translations within
// one tree.
const DefaultStringDelay = 2 * time.Second

// UnitTranslator translates a single string.
// *lingva.Client implements it.
type UnitTranslator interface {
	TranslateUnit(ctx context.Context, u lingva.Unit) (lingva.Translation, error)
}

// WalkOptions controls TranslateTree.
type WalkOptions struct {
	// Delay is the pause before a string leaf that follows a leaf which
	// needed a request. Zero means DefaultStringDelay, negative disables.
	Delay time.Duration
	Clock Clock
}

func (o WalkOptions) effectiveDelay() time.Duration {
	if o.Delay == 0 {
		return DefaultStringDelay
	}
	return max(o.Delay, 0)
}

type walker struct {
	tr       UnitTranslator
	src, tgt string
	delay    time.Duration
	clock    Clock
	pending  bool // previous string leaf went to the network
}

// TranslateTree returns a copy of v with every string reachable through
// objects translated from src to tgt. Key order is preserved; numbers,
// booleans, nulls and arrays are copied unchanged. Leaves are visited
// depth-first in key order and the first failure aborts the walk.
func TranslateTree(ctx context.Context, v jsontree.Value, src, tgt string, tr UnitTranslator, opts WalkOptions) (jsontree.Value, error) {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	w := &walker{
		tr:    tr,
		src:   src,
		tgt:   tgt,
		delay: opts.effectiveDelay(),
		clock: clock,
	}
	return w.walk(ctx, v)
}

func (w *walker) walk(ctx context.Context, v jsontree.Value) (jsontree.Value, error) {
	switch v.Kind() {
	case jsontree.String:
		return w.translateString(ctx, v.Str())
	case jsontree.Object:
		out := jsontree.ObjectValue()
		for _, m := range v.Members() {
			tv, err := w.walk(ctx, m.Value)
			if err != nil {
				return jsontree.Value{}, err
			}
			out.Set(m.Key, tv)
		}
		return out, nil
	case jsontree.Null, jsontree.Bool, jsontree.Number, jsontree.Array:
		return v, nil
	}
	return jsontree.Value{}, fmt.Errorf("unsupported value kind %v", v.Kind())
}

func (w *walker) translateString(ctx context.Context, text string) (jsontree.Value, error) {
	if w.pending && w.delay > 0 {
		if err := sleep(ctx, w.clock, w.delay); err != nil {
			return jsontree.Value{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return jsontree.Value{}, err
	}

	res, err := w.tr.TranslateUnit(ctx, lingva.Unit{Text: text, SourceLang: w.src, TargetLang: w.tgt})
	if err != nil {
		return jsontree.Value{}, err
	}
	w.pending = !res.Cached
	return jsontree.StringValue(res.Text), nil
}
