package task

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/database/dbtest"
)

type recorder struct {
	mu     sync.Mutex
	events []TaskEvent
}

func (r *recorder) Publish(_ context.Context, e TaskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db     *gorm.DB
	repo   Repository
	users  auth.UserRepository
	events *recorder
	svc    Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t, &auth.User{}, &Task{})
	repo := NewRepository(db)
	users := auth.NewRepository(db)
	events := &recorder{}
	return fixture{
		db:     db,
		repo:   repo,
		users:  users,
		events: events,
		svc:    NewService(repo, users, events, zap.NewNop()),
	}
}

func (f fixture) user(t *testing.T, email string) auth.User {
	t.Helper()
	u := auth.User{Email: email, PasswordHash: "x", Role: auth.RoleEmployee}
	require.NoError(t, f.users.Create(context.Background(), &u))
	return u
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	e, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	assert.Equal(t, kind, e.Kind)
	assert.Equal(t, msg, e.Message)
}

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "ann@company.com")

	task, err := f.svc.Create(ctx, CreateInput{Title: "Write report", CreatedByUserID: u.ID})
	require.NoError(t, err)

	assert.Positive(t, task.ID)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, u.ID, task.AssignedToUserID)
	assert.Equal(t, u.ID, task.CreatedByUserID)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, []EventType{EventCreated}, f.events.types())
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "bob@company.com")

	tests := []struct {
		name string
		in   CreateInput
		msg  string
	}{
		{"blank title", CreateInput{Title: "  ", CreatedByUserID: u.ID}, "title is required"},
		{"bad status", CreateInput{Title: "x", Status: ptr(Status("blocked")), CreatedByUserID: u.ID}, msgInvalidStatus},
		{"bad priority", CreateInput{Title: "x", Priority: ptr(Priority("urgent")), CreatedByUserID: u.ID}, msgInvalidPriority},
		{"unknown assignee", CreateInput{Title: "x", AssignedToUserID: ptr(int64(9999)), CreatedByUserID: u.ID}, msgUnknownAssignee},
		{"zero assignee", CreateInput{Title: "x", AssignedToUserID: ptr(int64(0)), CreatedByUserID: u.ID}, msgInvalidAssignee},
		{"no creator", CreateInput{Title: "x"}, msgInvalidCreator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.in)
			requireKind(t, err, apperr.KindValidation, tt.msg)
		})
	}
	assert.Empty(t, f.events.types())
}

func TestDueDateRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "cat@company.com")

	due, err := ParseDate("2026-02-28")
	require.NoError(t, err)

	created, err := f.svc.Create(ctx, CreateInput{Title: "Ship", DueDate: &due, CreatedByUserID: u.ID})
	require.NoError(t, err)

	got, err := f.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-02-28", got.DueDate.String())
}

func TestListScopedAndPaged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	me := f.user(t, "me@company.com")
	other := f.user(t, "other@company.com")

	var ids []int64
	for i := 0; i < 25; i++ {
		st := StatusTodo
		if i%5 == 0 {
			st = StatusDone
		}
		task, err := f.svc.Create(ctx, CreateInput{Title: fmt.Sprintf("t%02d", i), Status: &st, CreatedByUserID: me.ID})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	_, err := f.svc.Create(ctx, CreateInput{Title: "not mine", CreatedByUserID: other.ID})
	require.NoError(t, err)

	page, err := f.svc.List(ctx, Filter{AssignedToUserID: &me.ID, Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(25), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, ids[14], page.Items[0].ID)

	done := StatusDone
	filtered, err := f.svc.List(ctx, Filter{AssignedToUserID: &me.ID, Status: &done, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), filtered.Pagination.Total)
	for _, item := range filtered.Items {
		assert.Equal(t, StatusDone, item.Status)
	}

	_, err = f.svc.List(ctx, Filter{Status: ptr(Status("nope"))})
	requireKind(t, err, apperr.KindValidation, msgInvalidStatus)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "dan@company.com")
	assignee := f.user(t, "eve@company.com")

	due, _ := ParseDate("2026-03-01")
	task, err := f.svc.Create(ctx, CreateInput{
		Title:           "Plan",
		Description:     ptr("draft"),
		DueDate:         &due,
		CreatedByUserID: u.ID,
	})
	require.NoError(t, err)

	t.Run("any status transition", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, task.ID, Patch{Status: ptr(StatusDone)}, u.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusDone, updated.Status)

		updated, err = f.svc.Update(ctx, task.ID, Patch{Status: ptr(StatusTodo)}, u.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusTodo, updated.Status)
		assert.Equal(t, "Plan", updated.Title)
	})

	t.Run("clear nullable columns", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, task.ID, Patch{ClearDescription: true, ClearDueDate: true}, u.ID)
		require.NoError(t, err)
		assert.Nil(t, updated.Description)
		assert.Nil(t, updated.DueDate)
	})

	t.Run("reassign", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, task.ID, Patch{AssignedToUserID: &assignee.ID}, u.ID)
		require.NoError(t, err)
		assert.Equal(t, assignee.ID, updated.AssignedToUserID)
		assert.Equal(t, u.ID, updated.CreatedByUserID)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		_, err := f.svc.Update(ctx, task.ID, Patch{AssignedToUserID: ptr(int64(9999))}, u.ID)
		requireKind(t, err, apperr.KindValidation, msgUnknownAssignee)
	})

	t.Run("bad priority", func(t *testing.T) {
		_, err := f.svc.Update(ctx, task.ID, Patch{Priority: ptr(Priority("urgent"))}, u.ID)
		requireKind(t, err, apperr.KindValidation, msgInvalidPriority)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := f.svc.Update(ctx, 9999, Patch{Title: ptr("x")}, u.ID)
		requireKind(t, err, apperr.KindNotFound, msgNotFound)
	})
}

func TestDeleteTwice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "fay@company.com")

	task, err := f.svc.Create(ctx, CreateInput{Title: "Once", CreatedByUserID: u.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, task.ID, u.ID))
	err = f.svc.Delete(ctx, task.ID, u.ID)
	requireKind(t, err, apperr.KindNotFound, msgNotFound)

	assert.Equal(t, []EventType{EventCreated, EventDeleted}, f.events.types())
}

func TestRepositoryConditionalWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.repo.Update(ctx, 4242, Patch{Title: ptr("ghost")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.repo.Delete(ctx, 4242), ErrNotFound)

	err = f.repo.Create(ctx, &Task{Title: "orphan", Status: StatusTodo, Priority: PriorityLow, AssignedToUserID: 77, CreatedByUserID: 77})
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "gus@company.com")

	task, err := f.svc.Create(ctx, CreateInput{Title: "Gone soon", CreatedByUserID: u.ID})
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&auth.User{}, u.ID).Error)

	_, err = f.repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDateJSON(t *testing.T) {
	d := NewDate(time.Date(2026, 7, 4, 15, 30, 0, 0, time.FixedZone("x", 3600)))
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2026-07-04"`, string(b))

	var back Date
	require.NoError(t, back.UnmarshalJSON([]byte(`"2026-07-04"`)))
	assert.Equal(t, d.String(), back.String())

	assert.Error(t, back.UnmarshalJSON([]byte(`"2026-02-30"`)))
	assert.NoError(t, back.Scan("2026-01-02T00:00:00Z"))
	assert.Equal(t, "2026-01-02", back.String())
}
