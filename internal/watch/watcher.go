package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
)

type WatcherInterface interface {
	SetHandler(handler func())
	Start() error
	Stop()
}

// VaultWatcher follows create/modify/delete events under the posts folder
// and coalesces bursts into a single handler invocation per quiet interval
// (trailing-edge debounce). At most one recomputation is ever pending.
type VaultWatcher struct {
	conf    *structures.Config
	logger  providers.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	handler func()
	stop    chan struct{}
	stopped bool
}

func NewVaultWatcher(conf *structures.Config, logger providers.Logger) (WatcherInterface, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &VaultWatcher{
		conf:    conf,
		logger:  logger,
		watcher: w,
		stop:    make(chan struct{}),
	}, nil
}

func (vw *VaultWatcher) SetHandler(handler func()) {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.handler = handler
}

func (vw *VaultWatcher) Start() error {
	if !vw.conf.Vault.WatchEnabled {
		vw.logger.Infof(providers.TypeVault, "Vault watching disabled")
		return nil
	}

	root := filepath.Join(vw.conf.Vault.Path, filepath.FromSlash(vw.conf.Vault.PostsFolder))
	if err := vw.addRecursive(root); err != nil {
		return fmt.Errorf("failed to watch posts folder %s: %w", root, err)
	}

	vw.logger.Infof(providers.TypeVault, "Watching %s", root)
	go vw.loop()
	return nil
}

// addRecursive registers root and every non-hidden subdirectory; fsnotify
// does not watch recursively on its own.
func (vw *VaultWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return vw.watcher.Add(filepath.Dir(root))
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return vw.watcher.Add(path)
	})
}

func (vw *VaultWatcher) loop() {
	for {
		select {
		case <-vw.stop:
			return
		case event, ok := <-vw.watcher.Events:
			if !ok {
				return
			}
			vw.handleEvent(event)
		case err, ok := <-vw.watcher.Errors:
			if !ok {
				return
			}
			vw.logger.Warnf(providers.TypeVault, "Watcher error: %s", err)
		}
	}
}

func (vw *VaultWatcher) handleEvent(event fsnotify.Event) {
	// New directories need a watch of their own.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				_ = vw.watcher.Add(event.Name)
			}
			return
		}
	}

	if !strings.HasSuffix(event.Name, vw.conf.Vault.NoteExt) {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	vw.logger.Debugf(providers.TypeVault, "Vault event: %s %s", event.Op, event.Name)
	vw.debounce()
}

// debounce resets the quiet-interval timer; the handler only fires once no
// further event has arrived for the full interval.
func (vw *VaultWatcher) debounce() {
	interval := vw.conf.Vault.Debounce
	if interval <= 0 {
		interval = time.Second
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.stopped {
		return
	}
	if vw.timer != nil {
		vw.timer.Stop()
	}
	vw.timer = time.AfterFunc(interval, vw.fire)
}

func (vw *VaultWatcher) fire() {
	vw.mu.Lock()
	handler := vw.handler
	vw.mu.Unlock()
	if handler != nil {
		handler()
	}
}

func (vw *VaultWatcher) Stop() {
	vw.mu.Lock()
	if vw.stopped {
		vw.mu.Unlock()
		return
	}
	vw.stopped = true
	if vw.timer != nil {
		vw.timer.Stop()
	}
	vw.mu.Unlock()

	close(vw.stop)
	if err := vw.watcher.Close(); err != nil {
		vw.logger.Warnf(providers.TypeVault, "Error closing watcher: %s", err)
	}
}
