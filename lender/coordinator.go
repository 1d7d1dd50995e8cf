package lender

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hugecapital/observability"
)

// View is one state snapshot pushed to subscribers: the current filtered and
// ordered records, a loading flag for refreshes in flight, and the last
// refresh error if any.
type View struct {
	Records []Record
	Loading bool
	Err     error
}

// Subscription delivers Views until cancelled. Cancelling detaches the
// consumer from future notifications but never cancels an in-flight write.
type Subscription struct {
	C      <-chan View
	cancel func()
}

func (s *Subscription) Cancel() { s.cancel() }

// Coordinator owns the only in-memory cache of lender records. All reads go
// through Query snapshots, all writes through Create/Update/Archive. Writes
// persist first and touch the cache only after the store confirms, so a
// failed write can never leave a phantom record behind.
type Coordinator struct {
	store   Store
	norm    *Normalizer
	logger  *zap.Logger
	metrics *observability.Metrics

	idGenerator func() string
	now         func() time.Time

	mu    sync.RWMutex
	cache map[string]Record

	// pending chains writes per record id so that two updates issued in
	// sequence apply in issuance order even when store responses race.
	seqMu   sync.Mutex
	pending map[string]chan struct{}

	subMu  sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	criteria Criteria
	ch       chan View
}

func NewCoordinator(store Store, norm *Normalizer, logger *zap.Logger, metrics *observability.Metrics) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:       store,
		norm:        norm,
		logger:      logger,
		metrics:     metrics,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
		cache:       make(map[string]Record),
		pending:     make(map[string]chan struct{}),
		subs:        make(map[int]*subscriber),
	}
}

func (c *Coordinator) WithIDGenerator(gen func() string) *Coordinator {
	c.idGenerator = gen
	return c
}

func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// Refresh reloads every category table through the store boundary and swaps
// the cache wholesale. Rows that fail normalization policy (no lender name)
// are dropped with a warning rather than poisoning the cache.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.publish(View{Loading: true})

	next := make(map[string]Record)
	var nextMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, category := range Categories() {
		g.Go(func() error {
			rows, err := c.store.Select(ctx, category)
			if err != nil {
				return &PersistenceError{Op: fmt.Sprintf("refresh %s", category), Err: err}
			}
			for _, row := range rows {
				rec, err := c.norm.Normalize(category, row)
				if err != nil {
					return err
				}
				if rec.Name() == "" {
					c.logger.Warn("dropping lender row without name",
						zap.String("category", string(category)),
						zap.String("id", rec.ID))
					continue
				}
				nextMu.Lock()
				next[rec.ID] = rec
				nextMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.publish(View{Err: err})
		return err
	}

	c.mu.Lock()
	c.cache = next
	c.mu.Unlock()

	c.broadcast()
	return nil
}

// Create validates the form, assigns identity and timestamps, persists and
// then caches the new record.
func (c *Coordinator) Create(ctx context.Context, category Category, form FormData) (Record, error) {
	if err := ValidateForm(category, form); err != nil {
		c.countMutation("create", err)
		return Record{}, err
	}
	sch, err := Lookup(category)
	if err != nil {
		return Record{}, err
	}

	now := c.now().UTC()
	row := make(map[string]any, len(form.Fields)+6)
	for name, value := range form.Fields {
		row[name] = value
	}
	row["id"] = c.idGenerator()
	row["status"] = string(defaultStatus(form.Status))
	row["relationship"] = string(defaultRelationship(form.Relationship))
	row["created_at"] = now
	row["updated_at"] = now
	if sch.HasSortOrder {
		row["sort_order"] = form.SortOrder
	}
	if form.Actor != "" {
		row["created_by"] = form.Actor
		row["updated_by"] = form.Actor
	}

	stored, err := c.store.Insert(ctx, category, row)
	if err != nil {
		c.countMutation("create", err)
		if errors.Is(err, ErrDuplicate) {
			return Record{}, err
		}
		return Record{}, &PersistenceError{Op: fmt.Sprintf("create in %s", category), Err: err}
	}

	rec, err := c.norm.Normalize(category, stored)
	if err != nil {
		return Record{}, err
	}

	c.mu.Lock()
	c.cache[rec.ID] = rec
	c.mu.Unlock()

	c.countMutation("create", nil)
	c.broadcast()
	return rec.Clone(), nil
}

// UpdateFields carries a partial update. Values replace the current field
// content; system fields stay caller-inaccessible except status,
// relationship and sort_order.
type UpdateFields struct {
	Fields       map[string]string
	Status       Status
	Relationship Relationship
	SortOrder    *int
	Actor        string
}

// Update merges partial fields into an existing record, persists, and
// applies the confirmed row to the cache. Updates to the same id are
// serialized in issuance order.
func (c *Coordinator) Update(ctx context.Context, id string, upd UpdateFields) (Record, error) {
	release := c.acquire(id)
	defer release()

	rec, err := c.updateLocked(ctx, id, upd)
	c.countMutation("update", err)
	if err != nil {
		return Record{}, err
	}
	c.broadcast()
	return rec, nil
}

// Archive soft-deletes: the record moves to archived status and stays in the
// store. Archived is terminal for this operation; reactivating takes an
// explicit Update with a new status.
func (c *Coordinator) Archive(ctx context.Context, id string, actor string) error {
	release := c.acquire(id)
	defer release()

	_, err := c.updateLocked(ctx, id, UpdateFields{Status: StatusArchived, Actor: actor})
	c.countMutation("archive", err)
	if err != nil {
		return err
	}
	c.broadcast()
	return nil
}

func (c *Coordinator) updateLocked(ctx context.Context, id string, upd UpdateFields) (Record, error) {
	c.mu.RLock()
	current, ok := c.cache[id]
	c.mu.RUnlock()
	if !ok {
		return Record{}, fmt.Errorf("%w: id %q", ErrNotFound, id)
	}

	sch, err := Lookup(current.Category)
	if err != nil {
		return Record{}, err
	}

	fields := make(map[string]any, len(upd.Fields)+4)
	for name, value := range upd.Fields {
		spec, ok := sch.field(name)
		if !ok {
			return Record{}, fmt.Errorf("%w: field %q not in %s schema", ErrValidation, name, current.Category)
		}
		if !spec.allows(value) {
			return Record{}, fmt.Errorf("%w: field %q has unrecognized value %q", ErrValidation, name, value)
		}
		if spec.Required && value == "" {
			return Record{}, fmt.Errorf("%w: required field %q cannot be cleared", ErrValidation, name)
		}
		fields[name] = value
	}
	if upd.Status != "" {
		if !upd.Status.Valid() {
			return Record{}, fmt.Errorf("%w: unrecognized status %q", ErrValidation, upd.Status)
		}
		fields["status"] = string(upd.Status)
	}
	if upd.Relationship != "" {
		if !upd.Relationship.Valid() {
			return Record{}, fmt.Errorf("%w: unrecognized relationship %q", ErrValidation, upd.Relationship)
		}
		fields["relationship"] = string(upd.Relationship)
	}
	if upd.SortOrder != nil {
		if !sch.HasSortOrder {
			return Record{}, fmt.Errorf("%w: category %s has no sort_order", ErrValidation, current.Category)
		}
		fields["sort_order"] = *upd.SortOrder
	}
	if len(fields) == 0 {
		return current.Clone(), nil
	}
	fields["updated_at"] = c.now().UTC()
	if upd.Actor != "" {
		fields["updated_by"] = upd.Actor
	}

	stored, err := c.store.UpdateByID(ctx, current.Category, id, fields)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
		return Record{}, &PersistenceError{Op: fmt.Sprintf("update %s", id), Err: err}
	}

	rec, err := c.norm.Normalize(current.Category, stored)
	if err != nil {
		return Record{}, err
	}

	c.mu.Lock()
	c.cache[id] = rec
	c.mu.Unlock()

	return rec.Clone(), nil
}

// acquire returns a release func after every earlier writer for the same id
// has released. Tickets are handed out in call order, which is what makes
// issuance order the apply order.
func (c *Coordinator) acquire(id string) func() {
	c.seqMu.Lock()
	prev := c.pending[id]
	done := make(chan struct{})
	c.pending[id] = done
	c.seqMu.Unlock()

	if prev != nil {
		<-prev
	}
	return func() {
		close(done)
		c.seqMu.Lock()
		if c.pending[id] == done {
			delete(c.pending, id)
		}
		c.seqMu.Unlock()
	}
}

// Query snapshots the cache and returns a filtered, ordered, restartable
// sequence of cloned records. Consumers hold borrowed views only.
func (c *Coordinator) Query(criteria Criteria) (iter.Seq[Record], error) {
	return Query(c.snapshot(), criteria)
}

func (c *Coordinator) snapshot() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, 0, len(c.cache))
	for _, rec := range c.cache {
		out = append(out, rec.Clone())
	}
	return out
}

// Size reports the number of cached records.
func (c *Coordinator) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Subscribe registers a consumer for view snapshots matching criteria. The
// current view is delivered immediately; later views follow every successful
// mutation or refresh. The channel carries the latest state only: a slow
// consumer sees intermediate views dropped, never stale ones delivered late.
func (c *Coordinator) Subscribe(criteria Criteria) (*Subscription, error) {
	if err := criteria.validate(); err != nil {
		return nil, err
	}

	sub := &subscriber{criteria: criteria, ch: make(chan View, 1)}

	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = sub
	c.subMu.Unlock()

	sub.send(c.viewFor(criteria))

	cancel := func() {
		c.subMu.Lock()
		if s, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(s.ch)
		}
		c.subMu.Unlock()
	}
	return &Subscription{C: sub.ch, cancel: cancel}, nil
}

func (c *Coordinator) viewFor(criteria Criteria) View {
	seq, err := Query(c.snapshot(), criteria)
	if err != nil {
		return View{Err: err}
	}
	var records []Record
	for rec := range seq {
		records = append(records, rec)
	}
	return View{Records: records}
}

func (c *Coordinator) broadcast() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, sub := range c.subs {
		sub.send(c.viewFor(sub.criteria))
	}
}

// publish pushes a verbatim view (loading or error states) to everyone.
func (c *Coordinator) publish(v View) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, sub := range c.subs {
		sub.send(v)
	}
}

// send replaces any undelivered view so the channel always holds the latest.
func (s *subscriber) send(v View) {
	for {
		select {
		case s.ch <- v:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

func (c *Coordinator) countMutation(op string, err error) {
	if c.metrics == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		result = "validation_error"
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	default:
		result = "persistence_error"
	}
	c.metrics.LenderMutations.WithLabelValues(op, result).Inc()
}

func defaultStatus(s Status) Status {
	if s == "" {
		return StatusActive
	}
	return s
}

func defaultRelationship(r Relationship) Relationship {
	if r == "" {
		return RelationshipHugeCapital
	}
	return r
}
