package alarm

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// memRepo is an in-memory Repository for manager tests. failWrites and
// failReads simulate storage faults.
type memRepo struct {
	alarms     []Alarm
	writes     int
	failWrites bool
	failReads  bool
}

func (r *memRepo) LoadAlarms() ([]Alarm, error) {
	if r.failReads {
		return nil, errors.New("storage unavailable")
	}
	out := make([]Alarm, len(r.alarms))
	copy(out, r.alarms)
	return out, nil
}

func (r *memRepo) ReplaceAlarms(alarms []Alarm) error {
	if r.failWrites {
		return errors.New("disk full")
	}
	r.writes++
	r.alarms = make([]Alarm, len(alarms))
	copy(r.alarms, alarms)
	return nil
}

func newTestManager(t *testing.T) (*Manager, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	m := NewManager(repo)
	seq := 0
	m.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	m.Load()
	return m, repo
}

func addAt(t *testing.T, m *Manager, hour, minute int, label string) Alarm {
	t.Helper()
	a, err := m.Add(Alarm{
		Time:          tod(hour, minute),
		Label:         label,
		IsEnabled:     true,
		Sound:         "Default",
		DismissMethod: DismissButton,
	})
	if err != nil {
		t.Fatalf("add alarm: %v", err)
	}
	return a
}

// ============================================================
// Add
// ============================================================

func TestAddAssignsIdentityAndTimestamps(t *testing.T) {
	m, repo := newTestManager(t)
	a := addAt(t, m, 7, 30, "Wake up")

	if a.ID == "" {
		t.Fatal("expected assigned id")
	}
	if a.CreatedAt.IsZero() || !a.UpdatedAt.Equal(a.CreatedAt) {
		t.Fatalf("bad timestamps: created %v updated %v", a.CreatedAt, a.UpdatedAt)
	}
	if repo.writes != 1 {
		t.Fatalf("expected 1 persist, got %d", repo.writes)
	}
	if len(repo.alarms) != 1 {
		t.Fatalf("expected persisted collection of 1, got %d", len(repo.alarms))
	}
}

func TestAddDefaultsEmptyLabel(t *testing.T) {
	m, _ := newTestManager(t)
	a := addAt(t, m, 7, 0, "")
	if a.Label != "Alarm" {
		t.Fatalf("expected default label, got %q", a.Label)
	}
}

func TestAddNormalizesRepeatDays(t *testing.T) {
	m, _ := newTestManager(t)
	a, err := m.Add(Alarm{
		Time:       tod(6, 0),
		RepeatDays: []time.Weekday{time.Friday, time.Monday, time.Friday, time.Sunday},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Weekday{time.Sunday, time.Monday, time.Friday}
	if len(a.RepeatDays) != len(want) {
		t.Fatalf("expected %v, got %v", want, a.RepeatDays)
	}
	for i := range want {
		if a.RepeatDays[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, a.RepeatDays)
		}
	}
}

func TestAddKeepsSortOrder(t *testing.T) {
	m, _ := newTestManager(t)
	addAt(t, m, 9, 0, "Late")
	addAt(t, m, 6, 30, "Early")
	addAt(t, m, 8, 15, "Middle")

	assertSorted(t, m)
	alarms := m.Alarms()
	if alarms[0].Label != "Early" || alarms[2].Label != "Late" {
		t.Fatalf("unexpected order: %v, %v, %v", alarms[0].Label, alarms[1].Label, alarms[2].Label)
	}
}

func assertSorted(t *testing.T, m *Manager) {
	t.Helper()
	alarms := m.Alarms()
	for i := 1; i < len(alarms); i++ {
		if alarms[i-1].MinuteOfDay() > alarms[i].MinuteOfDay() {
			t.Fatalf("collection not sorted at %d: %v", i, alarms)
		}
	}
}

// ============================================================
// Update / Toggle
// ============================================================

func TestUpdatePatchesAndResorts(t *testing.T) {
	m, _ := newTestManager(t)
	a := addAt(t, m, 6, 0, "First")
	addAt(t, m, 8, 0, "Second")

	late := tod(22, 0)
	label := "Night"
	if err := m.Update(a.ID, Patch{Time: &late, Label: &label}); err != nil {
		t.Fatal(err)
	}

	alarms := m.Alarms()
	if alarms[1].ID != a.ID || alarms[1].Label != "Night" {
		t.Fatalf("updated alarm not re-sorted to the end: %+v", alarms)
	}
	if !alarms[1].UpdatedAt.After(alarms[1].CreatedAt) && !alarms[1].UpdatedAt.Equal(alarms[1].CreatedAt) {
		t.Fatal("updatedAt should be refreshed")
	}
	assertSorted(t, m)
}

func TestUpdateMissingIDIsNoop(t *testing.T) {
	m, repo := newTestManager(t)
	addAt(t, m, 7, 0, "Keep")
	writes := repo.writes

	label := "ignored"
	if err := m.Update("no-such-id", Patch{Label: &label}); err != nil {
		t.Fatalf("missing id should not error: %v", err)
	}
	if repo.writes != writes {
		t.Fatal("no-op update should not persist")
	}
	if got := m.Alarms()[0].Label; got != "Keep" {
		t.Fatalf("collection changed: %q", got)
	}
}

func TestToggleFlipsEnabled(t *testing.T) {
	m, _ := newTestManager(t)
	a := addAt(t, m, 7, 0, "")

	if err := m.Toggle(a.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Get(a.ID)
	if got.IsEnabled {
		t.Fatal("expected disabled after toggle")
	}

	if err := m.Toggle(a.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = m.Get(a.ID)
	if !got.IsEnabled {
		t.Fatal("expected enabled after second toggle")
	}
}

func TestToggleMissingIDIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	addAt(t, m, 7, 0, "")
	if err := m.Toggle("ghost"); err != nil {
		t.Fatalf("missing id should not error: %v", err)
	}
	if len(m.Alarms()) != 1 {
		t.Fatal("collection changed")
	}
}

// ============================================================
// Delete / Undo
// ============================================================

func TestDeleteMovesToTombstone(t *testing.T) {
	m, repo := newTestManager(t)
	a := addAt(t, m, 7, 0, "Doomed")
	addAt(t, m, 8, 0, "Safe")

	if err := m.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	if len(m.Alarms()) != 1 {
		t.Fatalf("expected 1 live alarm, got %d", len(m.Alarms()))
	}
	dead, ok := m.RecentlyDeleted()
	if !ok || dead.ID != a.ID {
		t.Fatal("deleted alarm should occupy the tombstone slot")
	}
	if len(repo.alarms) != 1 {
		t.Fatal("tombstone must not be persisted in the live collection")
	}
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	addAt(t, m, 7, 0, "")
	if err := m.Delete("ghost"); err != nil {
		t.Fatalf("missing id should not error: %v", err)
	}
	if len(m.Alarms()) != 1 {
		t.Fatal("collection changed")
	}
	if _, ok := m.RecentlyDeleted(); ok {
		t.Fatal("no tombstone expected")
	}
}

func TestUndoRestoresSortedPosition(t *testing.T) {
	m, _ := newTestManager(t)
	addAt(t, m, 6, 0, "A")
	b := addAt(t, m, 7, 0, "B")
	addAt(t, m, 8, 0, "C")

	m.Delete(b.ID)
	if err := m.UndoDelete(); err != nil {
		t.Fatal(err)
	}

	alarms := m.Alarms()
	if len(alarms) != 3 {
		t.Fatalf("expected 3 alarms after undo, got %d", len(alarms))
	}
	if alarms[1].ID != b.ID {
		t.Fatalf("restored alarm out of position: %+v", alarms)
	}
	if _, ok := m.RecentlyDeleted(); ok {
		t.Fatal("tombstone should be cleared after undo")
	}
	assertSorted(t, m)
}

func TestUndoWithoutTombstoneIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	addAt(t, m, 7, 0, "")
	if err := m.UndoDelete(); err != nil {
		t.Fatalf("undo with no tombstone should not error: %v", err)
	}
	if len(m.Alarms()) != 1 {
		t.Fatal("collection changed")
	}
}

func TestTombstoneExpires(t *testing.T) {
	m, _ := newTestManager(t)
	m.undoTTL = 20 * time.Millisecond
	a := addAt(t, m, 7, 0, "")

	m.Delete(a.ID)
	time.Sleep(80 * time.Millisecond)

	if _, ok := m.RecentlyDeleted(); ok {
		t.Fatal("tombstone should expire")
	}
	if err := m.UndoDelete(); err != nil {
		t.Fatal(err)
	}
	if len(m.Alarms()) != 0 {
		t.Fatal("undo after expiry should be a no-op")
	}
}

func TestNewDeleteReplacesTombstone(t *testing.T) {
	m, _ := newTestManager(t)
	a := addAt(t, m, 7, 0, "First")
	b := addAt(t, m, 8, 0, "Second")

	m.Delete(a.ID)
	m.Delete(b.ID)

	dead, ok := m.RecentlyDeleted()
	if !ok || dead.ID != b.ID {
		t.Fatal("newer delete should overwrite the tombstone")
	}
	// The first alarm's window is gone for good.
	m.UndoDelete()
	alarms := m.Alarms()
	if len(alarms) != 1 || alarms[0].ID != b.ID {
		t.Fatalf("undo should restore only the latest delete: %+v", alarms)
	}
}

func TestStaleTimerCannotClearNewerTombstone(t *testing.T) {
	m, _ := newTestManager(t)
	m.undoTTL = 30 * time.Millisecond
	a := addAt(t, m, 7, 0, "First")
	b := addAt(t, m, 8, 0, "Second")

	m.Delete(a.ID)
	time.Sleep(15 * time.Millisecond)
	m.Delete(b.ID) // re-arms the window

	time.Sleep(20 * time.Millisecond) // first timer would have fired by now
	if dead, ok := m.RecentlyDeleted(); !ok || dead.ID != b.ID {
		t.Fatal("second tombstone cleared early by a stale timer")
	}

	time.Sleep(40 * time.Millisecond)
	if _, ok := m.RecentlyDeleted(); ok {
		t.Fatal("second tombstone should expire on its own schedule")
	}
}

func TestClearDeletedCancelsWindow(t *testing.T) {
	m, _ := newTestManager(t)
	a := addAt(t, m, 7, 0, "")
	m.Delete(a.ID)
	m.ClearDeleted()

	if _, ok := m.RecentlyDeleted(); ok {
		t.Fatal("tombstone should be cleared")
	}
	if err := m.UndoDelete(); err != nil {
		t.Fatal(err)
	}
	if len(m.Alarms()) != 0 {
		t.Fatal("undo after clear should be a no-op")
	}
}

// ============================================================
// Duplicate
// ============================================================

func TestDuplicateSemantics(t *testing.T) {
	m, _ := newTestManager(t)
	a, err := m.Add(Alarm{
		Time:          tod(7, 30),
		Label:         "Workout",
		IsEnabled:     true,
		RepeatDays:    []time.Weekday{time.Monday, time.Wednesday},
		Sound:         "Loud",
		DismissMethod: DismissMath,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Duplicate(a.ID); err != nil {
		t.Fatal(err)
	}

	alarms := m.Alarms()
	if len(alarms) != 2 {
		t.Fatalf("expected 2 alarms, got %d", len(alarms))
	}
	var dup Alarm
	for _, x := range alarms {
		if x.ID != a.ID {
			dup = x
		}
	}
	if dup.ID == "" || dup.ID == a.ID {
		t.Fatal("duplicate needs a fresh id")
	}
	if dup.Label != "Workout Copy" {
		t.Fatalf("expected label %q, got %q", "Workout Copy", dup.Label)
	}
	if dup.IsEnabled {
		t.Fatal("duplicate must start disabled")
	}
	if dup.Sound != a.Sound || dup.DismissMethod != a.DismissMethod {
		t.Fatal("duplicate should copy sound and dismiss method")
	}
	if dup.MinuteOfDay() != a.MinuteOfDay() {
		t.Fatal("duplicate should copy the alarm time")
	}
	if len(dup.RepeatDays) != len(a.RepeatDays) {
		t.Fatal("duplicate should copy repeat days")
	}
	assertSorted(t, m)
}

func TestDuplicateMissingIDIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	addAt(t, m, 7, 0, "")
	if err := m.Duplicate("ghost"); err != nil {
		t.Fatalf("missing id should not error: %v", err)
	}
	if len(m.Alarms()) != 1 {
		t.Fatal("collection changed")
	}
}

// ============================================================
// Persistence policy
// ============================================================

func TestLoadFailureDegradesToEmpty(t *testing.T) {
	repo := &memRepo{failReads: true}
	m := NewManager(repo)
	m.Load()
	if len(m.Alarms()) != 0 {
		t.Fatal("read failure should yield an empty collection")
	}
}

func TestWriteFailureKeepsMemoryMutation(t *testing.T) {
	m, repo := newTestManager(t)
	repo.failWrites = true

	_, err := m.Add(Alarm{Time: tod(7, 0)})
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if len(m.Alarms()) != 1 {
		t.Fatal("in-memory mutation must survive a failed write")
	}
}

func TestEveryMutationPersists(t *testing.T) {
	m, repo := newTestManager(t)
	a := addAt(t, m, 7, 0, "")
	m.Toggle(a.ID)
	label := "x"
	m.Update(a.ID, Patch{Label: &label})
	m.Duplicate(a.ID)
	m.Delete(a.ID)
	m.UndoDelete()

	if repo.writes != 6 {
		t.Fatalf("expected 6 persists, got %d", repo.writes)
	}
}

func TestFeedbackSignals(t *testing.T) {
	m, _ := newTestManager(t)
	var got []Feedback
	m.SetFeedback(func(f Feedback) { got = append(got, f) })

	a := addAt(t, m, 7, 0, "")
	m.Toggle(a.ID) // disabling an enabled alarm
	m.Toggle(a.ID) // enabling

	want := []Feedback{FeedbackLight, FeedbackLight, FeedbackSuccess}
	if len(got) != len(want) {
		t.Fatalf("expected %d signals, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("signal %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
