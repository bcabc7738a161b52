package alarm

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the durable storage boundary for the alarm collection.
// Only whole-collection reads and overwrites are needed.
type Repository interface {
	LoadAlarms() ([]Alarm, error)
	ReplaceAlarms(alarms []Alarm) error
}

// Feedback is a fire-and-forget signal emitted by mutating operations so a
// caller can give tactile/audible confirmation. Purely cosmetic.
type Feedback int

const (
	FeedbackLight Feedback = iota
	FeedbackMedium
	FeedbackSuccess
)

// undoWindow is how long a deleted alarm stays recoverable.
const undoWindow = 5 * time.Second

// Patch holds optional field updates for Update. Nil fields are unchanged.
type Patch struct {
	Time          *time.Time
	Label         *string
	IsEnabled     *bool
	RepeatDays    []time.Weekday // nil = unchanged; empty non-nil clears
	Sound         *string
	DismissMethod *DismissMethod
}

// Manager owns the live alarm collection. All mutations apply to memory
// first, keep the list sorted by time-of-day, then write the whole
// collection through the repository. A failed write is reported to the
// caller but never rolls back the in-memory change.
//
// Deletes route through a single tombstone slot with an undo window; the
// expiry timer is replaced atomically with the slot so a stale timer can
// never clear a newer tombstone.
type Manager struct {
	mu   sync.Mutex
	repo Repository

	alarms          []Alarm
	recentlyDeleted *Alarm

	undoTimer *time.Timer
	undoGen   uint64
	undoTTL   time.Duration

	now      func() time.Time
	newID    func() string
	feedback func(Feedback)
}

// NewManager creates a manager backed by repo. Call Load before reading.
func NewManager(repo Repository) *Manager {
	return &Manager{
		repo:    repo,
		undoTTL: undoWindow,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetFeedback installs an optional feedback hook for mutating operations.
func (m *Manager) SetFeedback(fn func(Feedback)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = fn
}

// Load reads the persisted collection. A read failure degrades to an empty
// collection rather than propagating; the app stays usable.
func (m *Manager) Load() {
	alarms, err := m.repo.LoadAlarms()
	if err != nil {
		alarms = nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alarms = alarms
	m.sortLocked()
}

// Alarms returns a copy of the live collection in display order.
func (m *Manager) Alarms() []Alarm {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alarm, len(m.alarms))
	copy(out, m.alarms)
	return out
}

// Get returns the alarm with the given id, if present.
func (m *Manager) Get(id string) (Alarm, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		return m.alarms[i], true
	}
	return Alarm{}, false
}

// RecentlyDeleted returns the tombstoned alarm, if the undo window is open.
func (m *Manager) RecentlyDeleted() (Alarm, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recentlyDeleted == nil {
		return Alarm{}, false
	}
	return *m.recentlyDeleted, true
}

// Add creates a new alarm from a's fields, assigning a fresh id and
// timestamps. The repeat day set is deduplicated and stored sorted.
func (m *Manager) Add(a Alarm) (Alarm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitLocked(FeedbackLight)

	now := m.now()
	a.ID = m.newID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Label == "" {
		a.Label = DefaultLabel
	}
	a.RepeatDays = NormalizeDays(a.RepeatDays)

	m.alarms = append(m.alarms, a)
	m.sortLocked()
	return a, m.persistLocked()
}

// Update merges patch into the alarm with the given id and refreshes its
// updated-at timestamp. A missing id is a silent no-op.
func (m *Manager) Update(id string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return nil
	}
	m.emitLocked(FeedbackLight)

	a := &m.alarms[i]
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.Label != nil {
		a.Label = *patch.Label
	}
	if patch.IsEnabled != nil {
		a.IsEnabled = *patch.IsEnabled
	}
	if patch.RepeatDays != nil {
		a.RepeatDays = NormalizeDays(patch.RepeatDays)
	}
	if patch.Sound != nil {
		a.Sound = *patch.Sound
	}
	if patch.DismissMethod != nil {
		a.DismissMethod = *patch.DismissMethod
	}
	a.UpdatedAt = m.now()

	m.sortLocked()
	return m.persistLocked()
}

// Toggle flips the enabled flag on the alarm with the given id. A missing
// id is a silent no-op.
func (m *Manager) Toggle(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return nil
	}
	if m.alarms[i].IsEnabled {
		m.emitLocked(FeedbackLight)
	} else {
		m.emitLocked(FeedbackSuccess)
	}
	m.alarms[i].IsEnabled = !m.alarms[i].IsEnabled
	m.alarms[i].UpdatedAt = m.now()
	return m.persistLocked()
}

// Delete removes the alarm from the live collection and parks it in the
// tombstone slot for the undo window. Any previous tombstone is discarded
// and its pending expiry cancelled. A missing id is a silent no-op.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return nil
	}
	m.emitLocked(FeedbackMedium)

	deleted := m.alarms[i]
	m.alarms = append(m.alarms[:i], m.alarms[i+1:]...)

	m.cancelUndoTimerLocked()
	m.recentlyDeleted = &deleted
	m.undoGen++
	gen := m.undoGen
	m.undoTimer = time.AfterFunc(m.undoTTL, func() {
		m.expireTombstone(gen)
	})

	return m.persistLocked()
}

// expireTombstone clears the tombstone slot once the undo window elapses.
// The generation guard ignores timers that were superseded by a newer
// delete or an undo.
func (m *Manager) expireTombstone(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.undoGen != gen {
		return
	}
	m.recentlyDeleted = nil
	m.undoTimer = nil
}

// UndoDelete reinserts the tombstoned alarm into the live collection and
// cancels the pending expiry. A no-op if the window already closed.
func (m *Manager) UndoDelete() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recentlyDeleted == nil {
		return nil
	}
	m.emitLocked(FeedbackLight)

	m.cancelUndoTimerLocked()
	m.undoGen++
	m.alarms = append(m.alarms, *m.recentlyDeleted)
	m.recentlyDeleted = nil
	m.sortLocked()
	return m.persistLocked()
}

// ClearDeleted drops the tombstone immediately, cancelling its expiry.
func (m *Manager) ClearDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelUndoTimerLocked()
	m.undoGen++
	m.recentlyDeleted = nil
}

// Duplicate copies the alarm with the given id into a new record: fresh id
// and timestamps, label suffixed " Copy", disabled. A missing id is a
// silent no-op.
func (m *Manager) Duplicate(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return nil
	}
	m.emitLocked(FeedbackLight)

	now := m.now()
	dup := m.alarms[i]
	dup.ID = m.newID()
	dup.Label = dup.Label + " Copy"
	dup.IsEnabled = false
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.RepeatDays = append([]time.Weekday(nil), dup.RepeatDays...)

	m.alarms = append(m.alarms, dup)
	m.sortLocked()
	return m.persistLocked()
}

func (m *Manager) indexLocked(id string) int {
	for i := range m.alarms {
		if m.alarms[i].ID == id {
			return i
		}
	}
	return -1
}

// sortLocked orders the collection by wall-clock time of day. The sort is
// stable so equal times keep insertion order.
func (m *Manager) sortLocked() {
	sort.SliceStable(m.alarms, func(i, j int) bool {
		return m.alarms[i].MinuteOfDay() < m.alarms[j].MinuteOfDay()
	})
}

func (m *Manager) persistLocked() error {
	if err := m.repo.ReplaceAlarms(m.alarms); err != nil {
		return fmt.Errorf("persist alarms: %w", err)
	}
	return nil
}

func (m *Manager) cancelUndoTimerLocked() {
	if m.undoTimer != nil {
		m.undoTimer.Stop()
		m.undoTimer = nil
	}
}

func (m *Manager) emitLocked(f Feedback) {
	if m.feedback != nil {
		m.feedback(f)
	}
}
