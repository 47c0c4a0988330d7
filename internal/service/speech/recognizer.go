package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrRecognizerUnavailable is returned when the host offers no speech-to-text engine.
var ErrRecognizerUnavailable = errors.New("speech recognition not supported")

// CaptureError is a recognition engine failure (no speech, aborted, network...).
type CaptureError struct {
	Code string
	Err  error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech recognition error: %s: %v", e.Code, e.Err)
	}
	return "speech recognition error: " + e.Code
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Recognizer is a host speech-to-text capability. Recognize is single shot:
// non-continuous, no interim results, one alternative. It returns the first
// finalized transcript or an error.
type Recognizer interface {
	Available() bool
	Recognize(ctx context.Context) (string, error)
}

// UnavailableRecognizer stands in for hosts without speech recognition.
type UnavailableRecognizer struct{}

func (UnavailableRecognizer) Available() bool { return false }

func (UnavailableRecognizer) Recognize(context.Context) (string, error) {
	return "", ErrRecognizerUnavailable
}

type recognition struct {
	text string
	err  error
}

// ChannelRecognizer receives finalized results pushed by a remote engine,
// e.g. a browser reporting its SpeechRecognition events over a socket. Every
// Recognize call listens on its own channel, so a cancelled call can never
// consume a result meant for the next one.
type ChannelRecognizer struct {
	mu      sync.Mutex
	current chan recognition
	pending *recognition
}

// NewChannelRecognizer creates a recognizer fed through Deliver and Fail.
func NewChannelRecognizer() *ChannelRecognizer {
	return &ChannelRecognizer{}
}

func (c *ChannelRecognizer) Available() bool { return true }

// Deliver hands a finalized transcript to the pending Recognize call. A
// result that arrives before Recognize is waiting is held for it. It reports
// false when a result is already waiting.
func (c *ChannelRecognizer) Deliver(text string) bool {
	return c.push(recognition{text: text})
}

// Fail reports an engine error to the pending Recognize call.
func (c *ChannelRecognizer) Fail(code string) bool {
	return c.push(recognition{err: &CaptureError{Code: code}})
}

// Reset detaches the waiting Recognize call and drops any held result.
// Results pushed afterwards are kept for the next call.
func (c *ChannelRecognizer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	c.pending = nil
}

func (c *ChannelRecognizer) push(r recognition) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		select {
		case c.current <- r:
			return true
		default:
			return false
		}
	}
	if c.pending != nil {
		return false
	}
	c.pending = &r
	return true
}

// Recognize waits for one result. A call whose ctx is already done never
// becomes the receiving call.
func (c *ChannelRecognizer) Recognize(ctx context.Context) (string, error) {
	c.mu.Lock()
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		return "", err
	}
	results := make(chan recognition, 1)
	if c.pending != nil {
		results <- *c.pending
		c.pending = nil
	}
	c.current = results
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.current == results {
			c.current = nil
		}
		c.mu.Unlock()
	}()

	select {
	case r := <-results:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// LineRecognizer treats every line read from an input stream as one
// finalized utterance. Used by terminal front-ends.
type LineRecognizer struct {
	lines chan string
	errs  chan error
}

// NewLineRecognizer starts reading r in the background.
func NewLineRecognizer(r io.Reader) *LineRecognizer {
	lr := &LineRecognizer{lines: make(chan string), errs: make(chan error, 1)}
	go func() {
		defer close(lr.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lr.lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			lr.errs <- err
		}
	}()
	return lr
}

func (l *LineRecognizer) Available() bool { return true }

// Recognize returns the next non-empty line. Blank lines surface as a
// "no-speech" capture error; end of input as io.EOF.
func (l *LineRecognizer) Recognize(ctx context.Context) (string, error) {
	select {
	case line, ok := <-l.lines:
		if !ok {
			select {
			case err := <-l.errs:
				return "", &CaptureError{Code: "read", Err: err}
			default:
				return "", io.EOF
			}
		}
		text := strings.TrimSpace(line)
		if text == "" {
			return "", &CaptureError{Code: "no-speech"}
		}
		return text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
