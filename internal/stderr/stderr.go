//go:build !windows

// Package stderr captures output that C libraries (ALSA through oto, for
// instance) write straight to file descriptor 2 and routes it into the
// logger, so it cannot corrupt the terminal UI.
package stderr

import (
	"os"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// Capture redirects fd 2 until Stop is called.
type Capture struct {
	orig  int
	read  *os.File
	write *os.File
	done  chan struct{}
	once  sync.Once
}

// Start begins capturing stderr into logger. Call it before the audio
// device is opened. On error the program can continue uncaptured.
func Start(logger *zap.Logger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, read: r, write: w, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		forward(r, logger)
	}()
	return c, nil
}

// WriteOriginal writes to the real stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	if c == nil {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr and waits for the forwarder to drain.
func (c *Capture) Stop() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = syscall.Close(c.orig)
		c.write.Close()
		<-c.done
		c.read.Close()
	})
}
