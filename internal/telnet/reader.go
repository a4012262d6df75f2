package telnet

import (
	"bytes"
	"context"
	"regexp"
	"sync"
)

// DefaultLimit is the reader buffer size L, used when a Config does
// not override it.
const DefaultLimit = 65536

// Reader buffers in-band data delivered by the Input Parser and
// exposes byte/line/pattern-terminated reads with watermark-based
// flow control. It is fed exclusively by the connection task that
// owns it; Read* methods may be called from any goroutine and block
// via a condition variable until satisfied.
type Reader struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf   bytes.Buffer
	eof   bool
	limit int

	// onWatermark, if set, is called with true when buffered bytes
	// cross the high-water threshold and false when they fall back
	// below the low-water threshold: a single advisory signal for the
	// transport adapter.
	onWatermark func(highWater bool)
	aboveHigh   bool
}

// NewReader creates a reader with the given limit (0 selects
// DefaultLimit).
func NewReader(limit int) *Reader {
	if limit <= 0 {
		limit = DefaultLimit
	}
	r := &Reader{limit: limit}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// SetWatermarkHandler installs the advisory high/low-water callback.
func (r *Reader) SetWatermarkHandler(fn func(highWater bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onWatermark = fn
}

// Feed appends data delivered by the parser to the buffer and wakes
// any blocked readers. Must only be called by the connection task.
func (r *Reader) Feed(data []byte) {
	r.mu.Lock()
	r.buf.Write(data)
	r.checkWatermarkLocked()
	r.mu.Unlock()
	r.cond.Broadcast()
}

// SetEOF marks the transport closed; blocked reads are released.
func (r *Reader) SetEOF() {
	r.mu.Lock()
	r.eof = true
	r.mu.Unlock()
	r.cond.Broadcast()
}

func (r *Reader) checkWatermarkLocked() {
	if r.onWatermark == nil {
		return
	}
	high := float64(r.limit) * 0.75
	low := float64(r.limit) * 0.25
	n := float64(r.buf.Len())
	if !r.aboveHigh && n >= high {
		r.aboveHigh = true
		r.onWatermark(true)
	} else if r.aboveHigh && n <= low {
		r.aboveHigh = false
		r.onWatermark(false)
	}
}

// Read returns up to n bytes (or all available if n < 0), blocking
// until at least one byte is available or EOF.
func (r *Reader) Read(ctx context.Context, n int) ([]byte, error) {
	if done := r.waitFor(ctx, func() bool { return r.buf.Len() > 0 || r.eof }); done != nil {
		return nil, done
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buf.Len() == 0 && r.eof {
		return nil, nil
	}
	if n < 0 || n > r.buf.Len() {
		n = r.buf.Len()
	}
	out := make([]byte, n)
	r.buf.Read(out)
	r.checkWatermarkLocked()
	return out, nil
}

// ReadLine returns bytes through the next '\n', inclusive of the
// newline itself; on EOF it returns any buffered remainder once,
// together with an INCOMPLETE_READ error, then empty with a nil
// error.
func (r *Reader) ReadLine(ctx context.Context) ([]byte, error) {
	return r.readUntilByte(ctx, '\n')
}

func (r *Reader) readUntilByte(ctx context.Context, delim byte) ([]byte, error) {
	for {
		r.mu.Lock()
		b := r.buf.Bytes()
		if idx := bytes.IndexByte(b, delim); idx >= 0 {
			line := make([]byte, idx+1)
			copy(line, b[:idx+1])
			r.buf.Next(idx + 1)
			r.checkWatermarkLocked()
			r.mu.Unlock()
			return line, nil
		}
		if r.eof {
			rest := make([]byte, r.buf.Len())
			r.buf.Read(rest)
			r.mu.Unlock()
			if len(rest) == 0 {
				return nil, nil
			}
			return rest, newError(ErrIncompleteRead, "EOF before line terminator", nil)
		}
		r.mu.Unlock()
		if err := r.block(ctx); err != nil {
			return nil, err
		}
	}
}

// ReadUntil returns bytes through the first occurrence of needle
// (exclusive). Fails with INCOMPLETE_READ on EOF before a match, or
// LIMIT_OVERRUN if the buffer exceeds the configured limit before
// needle appears.
func (r *Reader) ReadUntil(ctx context.Context, needle []byte) ([]byte, error) {
	for {
		r.mu.Lock()
		b := r.buf.Bytes()
		if idx := bytes.Index(b, needle); idx >= 0 {
			out := make([]byte, idx)
			copy(out, b[:idx])
			r.buf.Next(idx + len(needle))
			r.checkWatermarkLocked()
			r.mu.Unlock()
			return out, nil
		}
		if r.buf.Len() > r.limit {
			consumed := r.buf.Len()
			r.buf.Reset()
			r.mu.Unlock()
			e := newError(ErrLimitOverrun, "limit exceeded before terminator", nil)
			e.Consumed = consumed
			return nil, e
		}
		if r.eof {
			rest := make([]byte, r.buf.Len())
			r.buf.Read(rest)
			r.mu.Unlock()
			e := newError(ErrIncompleteRead, "EOF before terminator", nil)
			e.Partial = rest
			return nil, e
		}
		r.mu.Unlock()
		if err := r.block(ctx); err != nil {
			return nil, err
		}
	}
}

// ReadUntilPattern is ReadUntil generalized to a byte-regex
// terminator, with the same two failure modes.
func (r *Reader) ReadUntilPattern(ctx context.Context, re *regexp.Regexp) ([]byte, error) {
	for {
		r.mu.Lock()
		b := r.buf.Bytes()
		if loc := re.FindIndex(b); loc != nil {
			out := make([]byte, loc[0])
			copy(out, b[:loc[0]])
			r.buf.Next(loc[1])
			r.checkWatermarkLocked()
			r.mu.Unlock()
			return out, nil
		}
		if r.buf.Len() > r.limit {
			consumed := r.buf.Len()
			r.buf.Reset()
			r.mu.Unlock()
			e := newError(ErrLimitOverrun, "limit exceeded before pattern match", nil)
			e.Consumed = consumed
			return nil, e
		}
		if r.eof {
			rest := make([]byte, r.buf.Len())
			r.buf.Read(rest)
			r.mu.Unlock()
			e := newError(ErrIncompleteRead, "EOF before pattern match", nil)
			e.Partial = rest
			return nil, e
		}
		r.mu.Unlock()
		if err := r.block(ctx); err != nil {
			return nil, err
		}
	}
}

// waitFor blocks until cond() is true, ctx is done, or the reader is
// closed by context cancellation; it returns a non-nil error only for
// context cancellation (used by the simple Read path).
func (r *Reader) waitFor(ctx context.Context, cond func() bool) error {
	r.mu.Lock()
	for !cond() {
		r.mu.Unlock()
		if err := r.block(ctx); err != nil {
			return err
		}
		r.mu.Lock()
	}
	r.mu.Unlock()
	return nil
}

// block waits on the condition variable, waking periodically to check
// ctx cancellation. Cancellation never corrupts buffered state.
func (r *Reader) block(ctx context.Context) error {
	waitCh := make(chan struct{})
	go func() {
		r.mu.Lock()
		r.cond.Wait()
		r.mu.Unlock()
		close(waitCh)
	}()
	select {
	case <-waitCh:
		return nil
	case <-ctx.Done():
		// Wake the waiting goroutine so it does not leak; buffered
		// state is untouched.
		r.cond.Broadcast()
		return ctx.Err()
	}
}

// Len reports the number of buffered bytes.
func (r *Reader) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Len()
}
