package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mkhomytsya/table-reservation/internal/model"
)

// memStore is an in-memory Store with the same guarantees as the MySQL
// implementation: Allocate runs callbacks one at a time and rolls back
// all writes when the callback fails.
type memStore struct {
	mu     sync.Mutex
	tables []model.Table
	res    map[uint64]model.Reservation
	nextID uint64
}

func newMemStore(tables ...model.Table) *memStore {
	return &memStore{tables: tables, res: make(map[uint64]model.Reservation)}
}

func (s *memStore) Allocate(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scratch := make(map[uint64]model.Reservation, len(s.res))
	for k, v := range s.res {
		scratch[k] = v
	}
	tx := &memTx{store: s, res: scratch}
	if err := fn(tx); err != nil {
		return err // scratch is discarded: rollback
	}
	s.res = scratch
	return nil
}

func (s *memStore) GetView(ctx context.Context, id uint64) (*model.ReservationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.res[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	v := s.view(r)
	return &v, nil
}

func (s *memStore) ListViews(ctx context.Context) ([]model.ReservationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]model.Reservation, 0, len(s.res))
	for _, r := range s.res {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].StartsAt.Equal(all[j].StartsAt) {
			return all[i].StartsAt.Before(all[j].StartsAt)
		}
		return all[i].ID < all[j].ID
	})
	views := make([]model.ReservationView, 0, len(all))
	for _, r := range all {
		views = append(views, s.view(r))
	}
	return views, nil
}

func (s *memStore) Release(ctx context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.res[id]; !ok {
		return false, nil
	}
	delete(s.res, id)
	return true, nil
}

func (s *memStore) view(r model.Reservation) model.ReservationView {
	v := model.ReservationView{
		ID: r.ID, TableID: r.TableID, PartySize: r.PartySize,
		StartsAt: r.StartsAt.UTC().Format(time.RFC3339Nano),
		EndsAt:   r.EndsAt.UTC().Format(time.RFC3339Nano),
	}
	for _, t := range s.tables {
		if t.ID == r.TableID {
			v.TableLabel = t.Label
			v.TableCapacity = t.Capacity
		}
	}
	return v
}

type memTx struct {
	store *memStore
	res   map[uint64]model.Reservation
}

func (t *memTx) TablesWithCapacity(ctx context.Context, minSeats int) ([]model.Table, error) {
	var out []model.Table
	for _, tbl := range t.store.tables {
		if tbl.Capacity >= minSeats {
			out = append(out, tbl)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *memTx) ReservationsForTable(ctx context.Context, tableID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range t.res {
		if r.TableID == tableID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *memTx) Insert(ctx context.Context, r *model.Reservation) error {
	t.store.nextID++
	r.ID = t.store.nextID
	t.res[r.ID] = *r
	return nil
}

func (t *memTx) Delete(ctx context.Context, id uint64) (bool, error) {
	if _, ok := t.res[id]; !ok {
		return false, nil
	}
	delete(t.res, id)
	return true, nil
}

func table(id uint64, label string, capacity int) model.Table {
	return model.Table{ID: id, Label: label, Capacity: capacity}
}

func TestCreate_TightestFit(t *testing.T) {
	store := newMemStore(table(1, "A", 2), table(2, "B", 4), table(3, "C", 6))
	b := NewBooking(store)

	id, err := b.Create(context.Background(), 1, "3", "2024-06-01T18:00:00", "2.0")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	view, err := b.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if view.TableLabel != "B" {
		t.Fatalf("expected tightest fit B, got %q", view.TableLabel)
	}
}

func TestCreate_TieBreakByID(t *testing.T) {
	store := newMemStore(table(7, "X", 4), table(3, "Y", 4))
	b := NewBooking(store)

	id, err := b.Create(context.Background(), 1, "4", "2024-06-01T18:00:00", "1.0")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	view, _ := b.Get(context.Background(), id)
	if view.TableID != 3 {
		t.Fatalf("expected lowest id on capacity tie, got table %d", view.TableID)
	}
}

func TestCreate_CapacityInvariant(t *testing.T) {
	store := newMemStore(table(1, "A", 2), table(2, "B", 4))
	b := NewBooking(store)

	if _, err := b.Create(context.Background(), 1, "5", "2024-06-01T18:00:00", "1.0"); KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound for oversized party, got %v", err)
	}
}

func TestCreate_InclusiveBoundaryOverlap(t *testing.T) {
	store := newMemStore(table(1, "A", 4))
	b := NewBooking(store)
	ctx := context.Background()

	if _, err := b.Create(ctx, 1, "2", "2024-06-01T10:00:00", "1.0"); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	// Mid-window overlap.
	if _, err := b.Create(ctx, 1, "2", "2024-06-01T10:30:00", "1.0"); KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound for overlapping window, got %v", err)
	}
	// Touching exactly at the boundary counts as a conflict.
	if _, err := b.Create(ctx, 1, "2", "2024-06-01T11:00:00", "1.0"); KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound for boundary touch, got %v", err)
	}
	// One millisecond later does not.
	if _, err := b.Create(ctx, 1, "2", "2024-06-01T11:00:00.001", "1.0"); err != nil {
		t.Fatalf("expected success one millisecond past the boundary, got %v", err)
	}
}

func TestCreate_SubMillisecondStartStaysOnBoundary(t *testing.T) {
	store := newMemStore(table(1, "A", 4))
	b := NewBooking(store)
	ctx := context.Background()

	if _, err := b.Create(ctx, 1, "2", "2024-06-01T10:00:00", "1.0"); err != nil {
		t.Fatalf("blocker failed: %v", err)
	}
	// A start half a millisecond past the boundary truncates onto it and
	// must conflict like an exact boundary touch.
	if _, err := b.Create(ctx, 1, "2", "2024-06-01T11:00:00.0005", "1.0"); KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound for sub-millisecond boundary start, got %v", err)
	}
}

func TestScenario_TwoTables(t *testing.T) {
	store := newMemStore(table(1, "T1", 2), table(2, "T2", 4))
	b := NewBooking(store)
	ctx := context.Background()

	id1, err := b.Create(ctx, 1, "2", "2024-06-01T10:00:00", "1.0")
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	v1, _ := b.Get(ctx, id1)
	if v1.TableLabel != "T1" {
		t.Fatalf("expected first booking on T1, got %q", v1.TableLabel)
	}

	id2, err := b.Create(ctx, 1, "3", "2024-06-01T10:30:00", "1.0")
	if err != nil {
		t.Fatalf("second booking failed: %v", err)
	}
	v2, _ := b.Get(ctx, id2)
	if v2.TableLabel != "T2" {
		t.Fatalf("expected second booking on T2, got %q", v2.TableLabel)
	}

	if _, err := b.Create(ctx, 1, "1", "2024-06-01T10:15:00", "0.5"); KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound with both tables occupied, got %v", err)
	}
}

func TestUpdate_IssuesNewID(t *testing.T) {
	store := newMemStore(table(1, "A", 4))
	b := NewBooking(store)
	ctx := context.Background()

	oldID, err := b.Create(ctx, 1, "2", "2024-06-01T10:00:00", "1.0")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	newID, err := b.Update(ctx, 1, oldID, "3", "2024-06-01T12:00:00", "1.5")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if newID == oldID {
		t.Fatalf("expected a new id on update, got the old one (%d)", oldID)
	}
	if _, err := b.Get(ctx, oldID); KindOf(err) != KindNotFound {
		t.Fatalf("expected old id gone after update, got %v", err)
	}
	view, err := b.Get(ctx, newID)
	if err != nil {
		t.Fatalf("lookup of new reservation failed: %v", err)
	}
	if view.PartySize != 3 {
		t.Fatalf("expected updated party size 3, got %d", view.PartySize)
	}
}

func TestUpdate_AtomicOnConflict(t *testing.T) {
	store := newMemStore(table(1, "A", 2), table(2, "B", 4))
	b := NewBooking(store)
	ctx := context.Background()

	blocker, err := b.Create(ctx, 1, "4", "2024-06-01T10:00:00", "1.0")
	if err != nil {
		t.Fatalf("blocker failed: %v", err)
	}
	victim, err := b.Create(ctx, 1, "2", "2024-06-01T12:00:00", "1.0")
	if err != nil {
		t.Fatalf("victim failed: %v", err)
	}

	// Moving the small booking into the blocked window for 4 guests
	// must fail with Conflict and leave the original untouched.
	_, err = b.Update(ctx, 1, victim, "4", "2024-06-01T10:30:00", "1.0")
	if KindOf(err) != KindConflict {
		t.Fatalf("expected KindConflict, got %v", err)
	}
	view, err := b.Get(ctx, victim)
	if err != nil {
		t.Fatalf("expected original reservation to survive, got %v", err)
	}
	if view.PartySize != 2 || view.StartsAt != "2024-06-01T12:00:00Z" {
		t.Fatalf("original reservation was mutated: %+v", view)
	}
	if _, err := b.Get(ctx, blocker); err != nil {
		t.Fatalf("blocker disappeared: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	store := newMemStore(table(1, "A", 4))
	b := NewBooking(store)

	if _, err := b.Update(context.Background(), 1, 999, "2", "2024-06-01T10:00:00", "1.0"); KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound for missing id, got %v", err)
	}
}

func TestDelete_Semantics(t *testing.T) {
	store := newMemStore(table(1, "A", 4))
	b := NewBooking(store)
	ctx := context.Background()

	if err := b.Delete(ctx, 42); KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound deleting a missing id, got %v", err)
	}

	id, err := b.Create(ctx, 1, "2", "2024-06-01T10:00:00", "1.0")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := b.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := b.Get(ctx, id); KindOf(err) != KindNotFound {
		t.Fatalf("expected KindNotFound after delete, got %v", err)
	}
	// The freed window can be booked again.
	if _, err := b.Create(ctx, 1, "2", "2024-06-01T10:00:00", "1.0"); err != nil {
		t.Fatalf("rebooking freed window failed: %v", err)
	}
}

func TestConcurrentAllocate_SingleWinner(t *testing.T) {
	store := newMemStore(table(1, "A", 4))
	b := NewBooking(store)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = b.Create(context.Background(), uint64(i+1), "2", "2024-06-01T19:00:00", "2.0")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case KindOf(err) == KindNotFound:
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner for the last table, got %d", wins)
	}
}

func TestList_OrderedByStart(t *testing.T) {
	store := newMemStore(table(1, "A", 4), table(2, "B", 4))
	b := NewBooking(store)
	ctx := context.Background()

	if _, err := b.Create(ctx, 1, "2", "2024-06-01T12:00:00", "1.0"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := b.Create(ctx, 1, "2", "2024-06-01T10:00:00", "1.0"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	views, err := b.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(views))
	}
	if views[0].StartsAt != "2024-06-01T10:00:00Z" {
		t.Fatalf("expected earliest first, got %s", views[0].StartsAt)
	}
}
