package journal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// TimeLayout is the format of the "time" field of every journal line.
const TimeLayout = "2006-01-02 15:04:05"

// lineHandler is a slog handler writing one flat JSON object per record.
// The level and message are dropped; attributes become top-level fields.
type lineHandler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

// newLineHandler creates a handler writing to out. opts may be nil.
func newLineHandler(out io.Writer, opts *slog.HandlerOptions) *lineHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &lineHandler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs)+1)
	fields["time"] = r.Time.Format(TimeLayout)

	for _, a := range h.attrs {
		put(fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(fields, h.prefix, a)
		return true
	})

	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(append(data, '\n'))
	return err
}

func put(fields map[string]any, prefix string, a slog.Attr) {
	if a.Key == "" {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			put(fields, prefix+a.Key+".", ga)
		}
		return
	}
	if v.Any() != nil {
		fields[prefix+a.Key] = v.Any()
	}
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}
