package loader

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/modulant/servicelayer"
)

// Watcher watches manifest files and reports writes so a host can
// rebuild its layer. The watcher does not rebuild anything itself; a
// ServiceLayer is immutable once built, so reacting to a change means
// destroying the old layer and starting a new one.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   servicelayer.Logger
	onChange func(path string)
}

// NewWatcher creates a watcher that invokes onChange with the path of
// every manifest that is written or created under a watched path.
func NewWatcher(logger servicelayer.Logger, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest watcher: %w", err)
	}
	if logger == nil {
		logger = servicelayer.NoopLogger{}
	}
	return &Watcher{watcher: fw, logger: logger, onChange: onChange}, nil
}

// Add registers a file or directory to watch.
func (w *Watcher) Add(path string) error {
	if err := w.watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return nil
}

// Run blocks, dispatching change notifications until ctx is cancelled.
// It owns the underlying watcher and closes it on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				w.logger.Debug("Manifest changed", "path", event.Name, "op", event.Op.String())
				w.onChange(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Manifest watcher error", "error", err)
		}
	}
}
