package transport

import (
	"crypto/tls"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// CertWatcher hot-swaps a server-side tls.Config's certificate when the
// backing cert/key files change on disk. It never touches the poll loop's
// goroutine directly: Config is read by the Server's accept path as each
// connection is accepted, and the watcher goroutine only ever replaces an atomic
// pointer, so the single-threaded poll loop discipline is preserved even
// though fsnotify delivers events from its own goroutine.
type CertWatcher struct {
	certFile, keyFile string
	current           atomic.Pointer[tls.Config]
	watcher           *fsnotify.Watcher
	mu                sync.Mutex
	closed            bool
}

// NewCertWatcher loads certFile/keyFile once and begins watching both paths
// for writes, reloading the in-memory tls.Config on change.
func NewCertWatcher(certFile, keyFile string) (*CertWatcher, error) {
	cfg, err := LoadTLSConfig(certFile, keyFile)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(certFile); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(keyFile); err != nil {
		w.Close()
		return nil, err
	}

	cw := &CertWatcher{certFile: certFile, keyFile: keyFile, watcher: w}
	cw.current.Store(cfg)
	go cw.run()
	return cw, nil
}

func (cw *CertWatcher) run() {
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if cfg, err := LoadTLSConfig(cw.certFile, cw.keyFile); err == nil {
				cw.current.Store(cfg)
			}
		case _, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Config returns the current tls.Config; safe to call concurrently.
func (cw *CertWatcher) Config() *tls.Config {
	return cw.current.Load()
}

// Close stops the watcher goroutine.
func (cw *CertWatcher) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.closed {
		return nil
	}
	cw.closed = true
	return cw.watcher.Close()
}
