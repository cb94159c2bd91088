package client

import (
	"context"
	"sync"
	"time"

	"diary-app/src/autosave"
	"diary-app/src/domain"

	"github.com/sirupsen/logrus"
)

// MemoDraft is the memo editor of one date. Edits are saved once typing
// pauses for the autosave delay; leaving the date drops an unsaved edit.
type MemoDraft struct {
	ctx       context.Context
	client    *Client
	date      domain.Date
	debouncer *autosave.Debouncer
	onSave    func(*domain.Memo, error)
	logger    *logrus.Logger

	mu      sync.Mutex
	content string
	saved   *domain.Memo
	err     error
}

// NewMemoDraft opens the editor of date. onSave, if set, is called after every save attempt.
func NewMemoDraft(ctx context.Context, client *Client, date domain.Date, delay time.Duration, onSave func(*domain.Memo, error)) *MemoDraft {
	d := &MemoDraft{
		ctx:    ctx,
		client: client,
		date:   date,
		onSave: onSave,
		logger: client.logger,
	}
	d.debouncer = autosave.NewDebouncer(delay, d.save)
	return d
}

// Load fills the draft with the stored memo; a missing memo leaves it empty
func (d *MemoDraft) Load(ctx context.Context) error {
	memo, err := d.client.GetMemo(ctx, d.date)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	d.mu.Lock()
	d.content = memo.Content
	d.saved = memo
	d.mu.Unlock()
	return nil
}

// Edit records the editor content and restarts the autosave delay
func (d *MemoDraft) Edit(content string) {
	d.mu.Lock()
	d.content = content
	d.mu.Unlock()
	d.debouncer.Trigger()
}

// Content returns the current editor content
func (d *MemoDraft) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

// Saved returns the memo as last stored by the server
func (d *MemoDraft) Saved() *domain.Memo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saved
}

// Err returns the error of the last save attempt
func (d *MemoDraft) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Dirty reports whether an edit is waiting to be saved
func (d *MemoDraft) Dirty() bool {
	return d.debouncer.Pending()
}

// Flush saves a pending edit now
func (d *MemoDraft) Flush() bool {
	return d.debouncer.Flush()
}

// Close leaves the date; a pending edit is discarded
func (d *MemoDraft) Close() {
	d.debouncer.Cancel()
}

func (d *MemoDraft) save() {
	content := d.Content()
	memo, err := d.client.SaveMemo(d.ctx, d.date, content)

	d.mu.Lock()
	d.err = err
	if err == nil {
		d.saved = memo
	}
	d.mu.Unlock()

	if err != nil {
		d.logger.WithError(err).WithField("memo_date", d.date).Warn("メモの自動保存に失敗")
	} else {
		d.logger.WithField("memo_date", d.date).Debug("メモを自動保存しました")
	}
	if d.onSave != nil {
		d.onSave(memo, err)
	}
}
