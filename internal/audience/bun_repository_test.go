package audience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/storage"
	"github.com/goliatone/go-pacer/pkg/testsupport"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	for _, model := range audience.Models() {
		if _, err := bunDB.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			t.Fatalf("drop table: %v", err)
		}
	}
	if err := storage.Migrate(ctx, bunDB, audience.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return bunDB
}

func TestBunWaitlistRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := audience.NewBunWaitlistRepository(newBunDB(t))
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	entry := &audience.WaitlistEntry{
		ID:        uuid.MustParse("00000000-0000-0000-0000-00000000a001"),
		Email:     "runner@example.com",
		Name:      "Runner",
		Source:    "landing",
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := repo.Create(ctx, entry)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if created.ID != entry.ID {
		t.Fatalf("expected id %s, got %s", entry.ID, created.ID)
	}

	byEmail, err := repo.GetByEmail(ctx, "runner@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.Name != "Runner" {
		t.Fatalf("expected name Runner, got %s", byEmail.Name)
	}

	dup := &audience.WaitlistEntry{ID: uuid.New(), Email: "runner@example.com", CreatedAt: now, UpdatedAt: now}
	if _, err := repo.Create(ctx, dup); err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}

	byEmail.Goal = "Boston qualifier"
	byEmail.UpdatedAt = now.Add(time.Hour)
	if _, err := repo.Update(ctx, byEmail); err != nil {
		t.Fatalf("update entry: %v", err)
	}
	byID, err := repo.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Goal != "Boston qualifier" {
		t.Fatalf("expected goal to persist, got %q", byID.Goal)
	}

	list, total, err := repo.List(ctx, audience.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d/%d", len(list), total)
	}

	if err := repo.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = repo.GetByID(ctx, entry.ID)
	var notFound *audience.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
	if err := repo.Delete(ctx, entry.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError deleting missing entry, got %v", err)
	}
}

func TestServiceWithBunRepositories(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)
	svc := audience.NewService(
		audience.NewBunWaitlistRepository(db),
		audience.NewBunSubscriberRepository(db),
		audience.NewBunUserRepository(db),
	)

	if _, dup, err := svc.RecordWaitlistEntry(ctx, audience.WaitlistInput{Email: "bun@example.com"}); err != nil || dup {
		t.Fatalf("record: dup=%t err=%v", dup, err)
	}
	if _, dup, err := svc.RecordWaitlistEntry(ctx, audience.WaitlistInput{Email: "Bun@Example.com"}); err != nil || !dup {
		t.Fatalf("expected duplicate: dup=%t err=%v", dup, err)
	}

	sub, err := svc.Subscribe(ctx, audience.SubscriberInput{Email: "reader@example.com"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := svc.Unsubscribe(ctx, sub.Email); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	stored, err := svc.GetSubscriber(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get subscriber: %v", err)
	}
	if stored.Status != audience.SubscriberUnsubscribed {
		t.Fatalf("expected unsubscribed status persisted, got %s", stored.Status)
	}

	user, err := svc.CreateUser(ctx, audience.UserInput{Email: "editor@example.com", Role: audience.RoleEditor})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	users, total, err := svc.ListUsers(ctx, audience.ListOptions{})
	if err != nil || total != 1 || users[0].ID != user.ID {
		t.Fatalf("unexpected users %v total=%d err=%v", users, total, err)
	}
}
