// Package input turns raw terminal bytes into key identifiers and
// logical actions.
package input

import (
	"bufio"
	"unicode/utf8"
)

// Key identifiers for non-printable keys. Printable keys are identified by
// the character itself, space included.
const (
	KeyUp        = "ArrowUp"
	KeyDown      = "ArrowDown"
	KeyLeft      = "ArrowLeft"
	KeyRight     = "ArrowRight"
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
	KeyInterrupt = "Ctrl+C"
)

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The channel is closed when r returns an error.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadKeys drains all available bytes from the stream (non-blocking) and
// decodes them.
func ReadKeys(s *Stream) []string {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return Decode(buf)
			}
			buf = append(buf, b)
		default:
			return Decode(buf)
		}
	}
}

// Decode converts a burst of terminal bytes into key identifiers, in order.
// Arrow-key escape sequences are recognised; a lone ESC is KeyEscape.
// Unknown control bytes are dropped.
func Decode(buf []byte) []string {
	var keys []string
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if key, ok := arrowKeys[buf[i+2]]; ok {
				keys = append(keys, key)
				i += 2
				continue
			}
		}

		switch b {
		case '\x1b':
			keys = append(keys, KeyEscape)
		case '\r', '\n':
			keys = append(keys, KeyEnter)
		case '\b', '\x7f':
			keys = append(keys, KeyBackspace)
		case '\x03':
			keys = append(keys, KeyInterrupt)
		default:
			if b < ' ' {
				continue
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r == utf8.RuneError && size <= 1 {
				continue
			}
			keys = append(keys, string(r))
			i += size - 1
		}
	}
	return keys
}

var arrowKeys = map[byte]string{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
}

// Resolver maps a physical key to a logical action.
type Resolver interface {
	Action(key string) (string, bool)
}

// Actions resolves keys to actions in order of first appearance. Unbound
// keys and repeated actions are dropped.
func Actions(keys []string, r Resolver) []string {
	var actions []string
	seen := make(map[string]bool)
	for _, key := range keys {
		action, ok := r.Action(key)
		if !ok || seen[action] {
			continue
		}
		seen[action] = true
		actions = append(actions, action)
	}
	return actions
}
