package hotpaste

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.design/x/clipboard"
)

// ClipboardReader provides access to the system clipboard. The two reads are
// independent so HTML-format absence never blocks the plain-text path.
type ClipboardReader interface {
	// Text returns the plain-text clipboard content.
	Text() (string, error)
	// HTML returns the raw CF_HTML payload and whether one is available.
	HTML() (payload string, ok bool, err error)
}

// retryPolicy is a bounded retry with short backoff for transient clipboard
// locks held by other processes. Never a blocking wait.
type retryPolicy struct {
	attempts int
	backoff  time.Duration
}

// clipboardRetry matches the systemwide-lock contention window: three
// attempts, ~30ms apart.
var clipboardRetry = retryPolicy{attempts: 3, backoff: 30 * time.Millisecond}

// do runs fn until it succeeds or the attempts are exhausted, returning the
// last error.
func (p retryPolicy) do(fn func() error) error {
	var err error
	for i := 0; i < p.attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i+1 < p.attempts {
			time.Sleep(p.backoff)
		}
	}
	return err
}

// systemClipboard reads the host clipboard via golang.design/x/clipboard.
// The backend exposes plain text only; CF_HTML is a Windows-specific format,
// so HTML reports absent here and a platform reader can be injected through
// the ClipboardReader interface where rich-text routing is needed.
type systemClipboard struct {
	initOnce sync.Once
	initErr  error
}

// NewSystemClipboard returns a reader backed by the OS clipboard.
func NewSystemClipboard() ClipboardReader {
	return &systemClipboard{}
}

func (c *systemClipboard) init() error {
	c.initOnce.Do(func() {
		c.initErr = clipboard.Init()
	})
	if c.initErr != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, c.initErr)
	}
	return nil
}

func (c *systemClipboard) Text() (string, error) {
	if err := c.init(); err != nil {
		return "", err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (c *systemClipboard) HTML() (string, bool, error) {
	return "", false, nil
}

// CaptureSnapshot reads a consistent snapshot of the clipboard under the
// bounded retry policy. HTML-format failures degrade to "no HTML" and
// plain-text read failures degrade to "empty"; only a clipboard that cannot
// be opened at all surfaces as ErrClipboardUnavailable.
func CaptureSnapshot(r ClipboardReader) (ClipboardSnapshot, error) {
	var payload string
	var hasHTML bool
	htmlErr := clipboardRetry.do(func() error {
		p, ok, err := r.HTML()
		if err != nil {
			return err
		}
		payload, hasHTML = p, ok
		return nil
	})
	if htmlErr != nil {
		// Absence of HTML degrades gracefully to the Markdown path.
		payload, hasHTML = "", false
	}

	var text string
	textErr := clipboardRetry.do(func() error {
		t, err := r.Text()
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	if textErr != nil {
		if errors.Is(textErr, ErrClipboardUnavailable) && htmlErr != nil {
			return ClipboardSnapshot{}, textErr
		}
		// Emptiness is never surfaced as an error.
		text = ""
	}

	return ClipboardSnapshot{
		HasHTML: hasHTML && strings.TrimSpace(payload) != "",
		HTML:    payload,
		Text:    text,
		Empty:   strings.TrimSpace(text) == "" && (!hasHTML || strings.TrimSpace(payload) == ""),
	}, nil
}
