package content

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

var testClock = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func TestService_CreateDraft(t *testing.T) {
	svc, _ := newTestService()

	d, err := svc.Create(context.Background(), "  SBA loan myths  ", "Thread body", PlatformTwitter, "user-amanda")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Title != "SBA loan myths" {
		t.Fatalf("expected trimmed title, got %q", d.Title)
	}
	if d.Status != StatusDraft {
		t.Fatalf("expected draft status, got %s", d.Status)
	}
	if d.ScheduledFor != nil || d.PublishedAt != nil {
		t.Fatalf("new draft should have no schedule or publish time: %+v", d)
	}

	if _, err := svc.Create(context.Background(), "", "body", PlatformTwitter, "user-amanda"); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft for empty title, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "title", "body", "tiktok", "user-amanda"); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft for unknown platform, got %v", err)
	}
}

func TestService_ScheduleRequiresFutureTime(t *testing.T) {
	svc, _ := newTestService()

	d, err := svc.Create(context.Background(), "Recap video", "", PlatformInstagram, "user-amanda")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Schedule(context.Background(), d.ID, testClock.Add(-time.Hour)); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft for past time, got %v", err)
	}
	if _, err := svc.Schedule(context.Background(), d.ID, testClock); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft for exactly-now time, got %v", err)
	}

	at := testClock.Add(48 * time.Hour)
	scheduled, err := svc.Schedule(context.Background(), d.ID, at)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if scheduled.Status != StatusScheduled {
		t.Fatalf("expected scheduled status, got %s", scheduled.Status)
	}
	if scheduled.ScheduledFor == nil || !scheduled.ScheduledFor.Equal(at) {
		t.Fatalf("expected scheduled_for %v, got %v", at, scheduled.ScheduledFor)
	}

	if _, err := svc.Schedule(context.Background(), "missing", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_PublishClearsSchedule(t *testing.T) {
	svc, _ := newTestService()

	d, err := svc.Create(context.Background(), "Funding milestone", "", PlatformLinkedIn, "user-dillon")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Schedule(context.Background(), d.ID, testClock.Add(time.Hour)); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	published, err := svc.Publish(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != StatusPublished {
		t.Fatalf("expected published, got %s", published.Status)
	}
	if published.ScheduledFor != nil {
		t.Fatalf("expected schedule cleared, got %v", published.ScheduledFor)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(testClock) {
		t.Fatalf("expected published_at %v, got %v", testClock, published.PublishedAt)
	}

	if _, err := svc.Publish(context.Background(), d.ID); !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}
	if _, err := svc.Schedule(context.Background(), d.ID, testClock.Add(time.Hour)); !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished on schedule after publish, got %v", err)
	}
}

func TestService_ListStatusFilter(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), "A", "", PlatformTwitter, "u"); err != nil {
		t.Fatalf("create: %v", err)
	}
	d, err := svc.Create(context.Background(), "B", "", PlatformTwitter, "u")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Publish(context.Background(), d.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	drafts, err := svc.List(context.Background(), StatusDraft)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Title != "A" {
		t.Fatalf("expected only draft A, got %+v", drafts)
	}

	if _, err := svc.List(context.Background(), "queued"); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft for bad status filter, got %v", err)
	}
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	svc := NewService(repo).
		WithIDGenerator(repo.nextDraftID).
		WithClock(func() time.Time { return testClock })
	return svc, repo
}

type fakeRepository struct {
	drafts map[string]Draft
	nextID int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{drafts: make(map[string]Draft), nextID: 1}
}

func (f *fakeRepository) nextDraftID() string {
	id := fmt.Sprintf("draft-%d", f.nextID)
	f.nextID++
	return id
}

func (f *fakeRepository) List(ctx context.Context, status Status) ([]Draft, error) {
	out := make([]Draft, 0, len(f.drafts))
	for _, d := range f.drafts {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepository) Create(ctx context.Context, d Draft) (Draft, error) {
	f.drafts[d.ID] = d
	return d, nil
}

func (f *fakeRepository) Update(ctx context.Context, d Draft) (Draft, error) {
	if _, ok := f.drafts[d.ID]; !ok {
		return Draft{}, ErrNotFound
	}
	f.drafts[d.ID] = d
	return d, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (Draft, error) {
	d, ok := f.drafts[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d, nil
}
