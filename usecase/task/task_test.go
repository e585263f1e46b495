package task

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
	"github.com/Esraa999/TeamManagementTask/usecase"
)

type broadcastCall struct {
	event  string
	userID int64
	toUser bool
	args   []interface{}
}

type recordingBroadcaster struct {
	calls []broadcastCall
}

func (r *recordingBroadcaster) BroadcastAll(event string, args ...interface{}) {
	r.calls = append(r.calls, broadcastCall{event: event, args: args})
}

func (r *recordingBroadcaster) BroadcastUser(userID int64, event string, args ...interface{}) {
	r.calls = append(r.calls, broadcastCall{event: event, userID: userID, toUser: true, args: args})
}

func (r *recordingBroadcaster) events() []string {
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.event)
	}
	return out
}

type fakeTaskRepo struct {
	nextID  int64
	records map[int64]*repository.TaskRecord
	names   *fakeUserRepo
	failAll bool
}

func newFakeTaskRepo(users *fakeUserRepo) *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1, records: map[int64]*repository.TaskRecord{}, names: users}
}

func (f *fakeTaskRepo) GetAll(ctx context.Context) ([]repository.TaskRecord, error) {
	if f.failAll {
		return nil, domain.NewError(domain.ErrCodeStorage, "query tasks")
	}
	out := make([]repository.TaskRecord, 0, len(f.records))
	for _, r := range f.records {
		if r.Task.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id int64) (*repository.TaskRecord, error) {
	r, ok := f.records[id]
	if !ok || !r.Task.IsActive {
		return nil, domain.ErrTaskNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeTaskRepo) GetByAssignee(ctx context.Context, userID int64) ([]repository.TaskRecord, error) {
	var out []repository.TaskRecord
	for _, r := range f.records {
		if r.Task.IsActive && r.Task.AssigneeID != nil && *r.Task.AssigneeID == userID {
			out = append(out, *r)
		}
	}
	// Due date ascending with nulls last, then priority. Status plays no
	// part in the ordering.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Task, out[j].Task
		switch {
		case a.DueDate == nil && b.DueDate == nil:
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return priorityRank(a.Priority) < priorityRank(b.Priority)
	})
	return out, nil
}

func priorityRank(p domain.TaskPriority) int {
	switch p {
	case domain.PriorityCritical:
		return 0
	case domain.PriorityHigh:
		return 1
	case domain.PriorityMedium:
		return 2
	default:
		return 3
	}
}

func (f *fakeTaskRepo) GetByStatus(ctx context.Context, status domain.TaskStatus) ([]repository.TaskRecord, error) {
	var out []repository.TaskRecord
	for _, r := range f.records {
		if r.Task.IsActive && r.Task.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) CountByActivity(ctx context.Context, activityID int64) (int, error) {
	// Counts soft-deleted rows too, matching the SQL contract.
	n := 0
	for _, r := range f.records {
		if r.Task.ActivityID == activityID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) (*repository.TaskRecord, error) {
	t := *task
	t.ID = f.nextID
	f.nextID++
	t.IsActive = true
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	record := &repository.TaskRecord{
		Task:         t,
		ActivityName: "Launch",
		AssigneeName: f.names.fullName(t.AssigneeID),
		CreatorName:  "Dina Adel",
	}
	f.records[t.ID] = record
	cp := *record
	return &cp, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) (*repository.TaskRecord, error) {
	existing, ok := f.records[task.ID]
	if !ok || !existing.Task.IsActive {
		return nil, domain.ErrTaskNotFound
	}
	updated := *task
	updated.IsActive = true
	updated.UpdatedAt = time.Now()
	updated.CompletedAt = completedStamp(existing.Task.CompletedAt, updated.Status)
	existing.Task = updated
	existing.AssigneeName = f.names.fullName(updated.AssigneeID)
	cp := *existing
	return &cp, nil
}

func (f *fakeTaskRepo) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (bool, error) {
	existing, ok := f.records[id]
	if !ok || !existing.Task.IsActive {
		return false, nil
	}
	existing.Task.CompletedAt = completedStamp(existing.Task.CompletedAt, status)
	existing.Task.Status = status
	existing.Task.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int64) (bool, error) {
	existing, ok := f.records[id]
	if !ok || !existing.Task.IsActive {
		return false, nil
	}
	existing.Task.IsActive = false
	return true, nil
}

// completedStamp applies the same rule the SQL layer does: set once on the
// first transition to Completed, never clear afterwards.
func completedStamp(current *time.Time, status domain.TaskStatus) *time.Time {
	if status == domain.StatusCompleted && current == nil {
		now := time.Now()
		return &now
	}
	return current
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[int64]*domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetAll(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	cp := *user
	cp.ID = int64(len(f.users) + 1)
	f.users[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUserRepo) Deactivate(ctx context.Context, id int64) (bool, error) {
	u, ok := f.users[id]
	if !ok {
		return false, nil
	}
	u.IsActive = false
	return true, nil
}

func (f *fakeUserRepo) fullName(id *int64) *string {
	if id == nil {
		return nil
	}
	if u, ok := f.users[*id]; ok {
		name := u.FullName
		return &name
	}
	return nil
}

type fakeActivityRepo struct {
	activities map[int64]*repository.ActivityRecord
}

func newFakeActivityRepo(records ...*repository.ActivityRecord) *fakeActivityRepo {
	f := &fakeActivityRepo{activities: map[int64]*repository.ActivityRecord{}}
	for _, r := range records {
		f.activities[r.Activity.ID] = r
	}
	return f
}

func (f *fakeActivityRepo) GetAll(ctx context.Context) ([]repository.ActivityRecord, error) {
	out := make([]repository.ActivityRecord, 0, len(f.activities))
	for _, r := range f.activities {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id int64) (*repository.ActivityRecord, error) {
	r, ok := f.activities[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *domain.Activity) (*repository.ActivityRecord, error) {
	cp := *activity
	cp.ID = int64(len(f.activities) + 1)
	record := &repository.ActivityRecord{Activity: cp}
	f.activities[cp.ID] = record
	out := *record
	return &out, nil
}

func (f *fakeActivityRepo) Deactivate(ctx context.Context, id int64) (bool, error) {
	r, ok := f.activities[id]
	if !ok {
		return false, nil
	}
	r.Activity.IsActive = false
	return true, nil
}

func (f *fakeActivityRepo) Remove(ctx context.Context, id int64) (bool, error) {
	if _, ok := f.activities[id]; !ok {
		return false, nil
	}
	delete(f.activities, id)
	return true, nil
}

func fixture() (*Service, *fakeTaskRepo, *recordingBroadcaster) {
	users := newFakeUserRepo(
		&domain.User{ID: 1, Username: "dina", FullName: "Dina Adel", Email: "dina@example.com", Role: domain.RoleAdmin, IsActive: true},
		&domain.User{ID: 2, Username: "omar", FullName: "Omar Samir", Email: "omar@example.com", Role: domain.RoleUser, IsActive: true},
		&domain.User{ID: 3, Username: "gone", FullName: "Former Member", Email: "gone@example.com", Role: domain.RoleUser, IsActive: false},
	)
	activities := newFakeActivityRepo(
		&repository.ActivityRecord{Activity: domain.Activity{ID: 10, Name: "Launch", IsActive: true, CreatedBy: 1}},
		&repository.ActivityRecord{Activity: domain.Activity{ID: 11, Name: "Archived", IsActive: false, CreatedBy: 1}},
	)
	tasks := newFakeTaskRepo(users)
	hub := &recordingBroadcaster{}
	svc := New(tasks, users, activities, hub, nil)
	return svc, tasks, hub
}

func TestCreateDefaultsAndBroadcast(t *testing.T) {
	svc, _, hub := fixture()

	dto, err := svc.Create(context.Background(), CreateInput{
		Title:      "Prepare release notes",
		ActivityID: 10,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, dto.Status)
	assert.Equal(t, domain.PriorityMedium, dto.Priority)
	assert.Equal(t, domain.UnassignedName, dto.AssigneeName)
	assert.Nil(t, dto.CompletedAt)

	require.Len(t, hub.calls, 1)
	assert.Equal(t, usecase.EventTaskCreated, hub.calls[0].event)
	assert.False(t, hub.calls[0].toUser)
}

func TestCreateValidationOrder(t *testing.T) {
	svc, _, hub := fixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
		actor int64
		code  domain.ErrorCode
	}{
		{"missing title", CreateInput{ActivityID: 10}, 1, domain.ErrCodeInvalid},
		{"title too long", CreateInput{Title: strings.Repeat("x", 201), ActivityID: 10}, 1, domain.ErrCodeInvalid},
		{"missing activity", CreateInput{Title: "T"}, 1, domain.ErrCodeInvalid},
		{"unknown activity", CreateInput{Title: "T", ActivityID: 99}, 1, domain.ErrCodeReference},
		{"inactive activity", CreateInput{Title: "T", ActivityID: 11}, 1, domain.ErrCodeReference},
		{"unknown assignee", CreateInput{Title: "T", ActivityID: 10, AssigneeID: ptr(int64(99))}, 1, domain.ErrCodeReference},
		{"inactive assignee", CreateInput{Title: "T", ActivityID: 10, AssigneeID: ptr(int64(3))}, 1, domain.ErrCodeReference},
		{"unknown actor", CreateInput{Title: "T", ActivityID: 10}, 99, domain.ErrCodeReference},
		{"bad status", CreateInput{Title: "T", ActivityID: 10, Status: "Sleeping"}, 1, domain.ErrCodeEnum},
		{"bad priority", CreateInput{Title: "T", ActivityID: 10, Priority: "Extreme"}, 1, domain.ErrCodeEnum},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input, tc.actor)
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, tc.code), "want %s, got %v", tc.code, err)
		})
	}

	// Failed mutations never reach the hub.
	assert.Empty(t, hub.calls)
}

func TestTitleLengthCountsRunesNotBytes(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	// 150 two-byte runes is 300 bytes but well within the 200-char limit.
	_, err := svc.Create(ctx, CreateInput{
		Title:      strings.Repeat("ü", 150),
		ActivityID: 10,
	}, 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{
		Title:      strings.Repeat("ü", 201),
		ActivityID: 10,
	}, 1)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCreateShapeCheckedBeforeReferences(t *testing.T) {
	svc, _, _ := fixture()

	// Both the title and the activity reference are invalid; the shape
	// error must win.
	_, err := svc.Create(context.Background(), CreateInput{ActivityID: 99}, 1)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestUpdateStatusEmitsBothEvents(t *testing.T) {
	svc, _, hub := fixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Ship it", ActivityID: 10}, 1)
	require.NoError(t, err)
	hub.calls = nil

	dto, err := svc.UpdateStatus(ctx, created.TaskID, "InProgress", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, dto.Status)

	require.Equal(t, []string{usecase.EventTaskStatusChanged, usecase.EventTaskUpdated}, hub.events())
	assert.Equal(t, []interface{}{created.TaskID, domain.StatusInProgress}, hub.calls[0].args)
}

func TestUpdateStatusUnknownTask(t *testing.T) {
	svc, _, hub := fixture()

	_, err := svc.UpdateStatus(context.Background(), 42, "Completed", 1)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	assert.Empty(t, hub.calls)
}

func TestUpdateStatusInvalidEnum(t *testing.T) {
	svc, tasks, hub := fixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Ship it", ActivityID: 10}, 1)
	require.NoError(t, err)
	hub.calls = nil

	_, err = svc.UpdateStatus(ctx, created.TaskID, "Done", 1)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeEnum))
	assert.Empty(t, hub.calls)

	// The stored row is untouched.
	record, err := tasks.GetByID(ctx, created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, record.Task.Status)
}

func TestCompletedTimestampSetOnceNeverCleared(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Ship it", ActivityID: 10}, 1)
	require.NoError(t, err)

	completed, err := svc.UpdateStatus(ctx, created.TaskID, "Completed", 1)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	first := *completed.CompletedAt

	// Reopening keeps the original completion timestamp.
	reopened, err := svc.UpdateStatus(ctx, created.TaskID, "InProgress", 1)
	require.NoError(t, err)
	require.NotNil(t, reopened.CompletedAt)
	assert.Equal(t, first, *reopened.CompletedAt)

	// Completing again does not move it.
	again, err := svc.UpdateStatus(ctx, created.TaskID, "Completed", 1)
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.Equal(t, first, *again.CompletedAt)
}

func TestAssignBroadcastsAndNotifiesAssignee(t *testing.T) {
	svc, _, hub := fixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Review designs", ActivityID: 10}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.UnassignedName, created.AssigneeName)
	hub.calls = nil

	dto, err := svc.Assign(ctx, created.TaskID, 2, 1)
	require.NoError(t, err)
	require.NotNil(t, dto.AssigneeID)
	assert.Equal(t, int64(2), *dto.AssigneeID)
	assert.Equal(t, "Omar Samir", dto.AssigneeName)

	require.Len(t, hub.calls, 2)
	assert.Equal(t, usecase.EventTaskAssigned, hub.calls[0].event)
	assert.False(t, hub.calls[0].toUser)
	assert.Equal(t, usecase.EventNotification, hub.calls[1].event)
	assert.True(t, hub.calls[1].toUser)
	assert.Equal(t, int64(2), hub.calls[1].userID)
	require.Len(t, hub.calls[1].args, 1)
	assert.Contains(t, hub.calls[1].args[0], "Review designs")
}

func TestAssignInactiveUserRejected(t *testing.T) {
	svc, _, hub := fixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Review designs", ActivityID: 10}, 1)
	require.NoError(t, err)
	hub.calls = nil

	_, err = svc.Assign(ctx, created.TaskID, 3, 1)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeReference))
	assert.Empty(t, hub.calls)
}

func TestDeleteBroadcastsID(t *testing.T) {
	svc, tasks, hub := fixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Old chore", ActivityID: 10}, 1)
	require.NoError(t, err)
	hub.calls = nil

	require.NoError(t, svc.Delete(ctx, created.TaskID))
	require.Len(t, hub.calls, 1)
	assert.Equal(t, usecase.EventTaskDeleted, hub.calls[0].event)
	assert.Equal(t, []interface{}{created.TaskID}, hub.calls[0].args)

	// The row survives as an inactive record.
	_, err = tasks.GetByID(ctx, created.TaskID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	// Deleting again is a NotFound, with no broadcast.
	hub.calls = nil
	err = svc.Delete(ctx, created.TaskID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	assert.Empty(t, hub.calls)
}

func TestGetByUserOrdersByDueDateThenPriority(t *testing.T) {
	svc, _, _ := fixture()
	ctx := context.Background()
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	// Same due date: the Critical task sorts first even though it is
	// Completed and the Low one is still Pending.
	low, err := svc.Create(ctx, CreateInput{
		Title: "Tidy backlog", ActivityID: 10,
		AssigneeID: ptr(int64(2)), Priority: "Low", DueDate: &due,
	}, 1)
	require.NoError(t, err)

	critical, err := svc.Create(ctx, CreateInput{
		Title: "Fix outage", ActivityID: 10,
		AssigneeID: ptr(int64(2)), Priority: "Critical", DueDate: &due,
	}, 1)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, critical.TaskID, "Completed", 1)
	require.NoError(t, err)

	// No due date sorts last regardless of priority.
	undated, err := svc.Create(ctx, CreateInput{
		Title: "Someday", ActivityID: 10,
		AssigneeID: ptr(int64(2)), Priority: "Critical",
	}, 1)
	require.NoError(t, err)

	tasks, err := svc.GetByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, critical.TaskID, tasks[0].TaskID)
	assert.Equal(t, low.TaskID, tasks[1].TaskID)
	assert.Equal(t, undated.TaskID, tasks[2].TaskID)
}

func TestGetByStatusRejectsUnknownValue(t *testing.T) {
	svc, _, _ := fixture()

	_, err := svc.GetByStatus(context.Background(), "Archived")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeEnum))
}

func TestGetAllPropagatesStorageError(t *testing.T) {
	svc, tasks, _ := fixture()
	tasks.failAll = true

	_, err := svc.GetAll(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStorage))
}

func ptr[T any](v T) *T { return &v }
