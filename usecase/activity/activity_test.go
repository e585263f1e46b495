package activity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/repository"
)

type fakeActivityRepo struct {
	records map[int64]*repository.ActivityRecord
	nextID  int64
}

func newFakeActivityRepo(records ...*repository.ActivityRecord) *fakeActivityRepo {
	f := &fakeActivityRepo{records: map[int64]*repository.ActivityRecord{}, nextID: 100}
	for _, r := range records {
		f.records[r.Activity.ID] = r
	}
	return f
}

func (f *fakeActivityRepo) GetAll(ctx context.Context) ([]repository.ActivityRecord, error) {
	var out []repository.ActivityRecord
	for _, r := range f.records {
		if r.Activity.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id int64) (*repository.ActivityRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *domain.Activity) (*repository.ActivityRecord, error) {
	cp := *activity
	cp.ID = f.nextID
	cp.IsActive = true
	f.nextID++
	record := &repository.ActivityRecord{Activity: cp, CreatorName: "Dina Adel"}
	f.records[cp.ID] = record
	out := *record
	return &out, nil
}

func (f *fakeActivityRepo) Deactivate(ctx context.Context, id int64) (bool, error) {
	r, ok := f.records[id]
	if !ok || !r.Activity.IsActive {
		return false, nil
	}
	r.Activity.IsActive = false
	return true, nil
}

func (f *fakeActivityRepo) Remove(ctx context.Context, id int64) (bool, error) {
	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

type stubTaskRows struct {
	repository.TaskRepository
	rows []domain.Task
}

// CountByActivity spans soft-deleted rows too, like the SQL it stands in
// for: those rows still reference the activity.
func (s *stubTaskRows) CountByActivity(ctx context.Context, activityID int64) (int, error) {
	n := 0
	for _, task := range s.rows {
		if task.ActivityID == activityID {
			n++
		}
	}
	return n, nil
}

type stubUsers struct {
	repository.UserRepository
	known map[int64]bool
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if !s.known[id] {
		return nil, domain.ErrUserNotFound
	}
	return &domain.User{ID: id, FullName: "Dina Adel", IsActive: true}, nil
}

func fixture(taskRows ...domain.Task) (*Service, *fakeActivityRepo) {
	activities := newFakeActivityRepo(
		&repository.ActivityRecord{Activity: domain.Activity{ID: 10, Name: "Launch", IsActive: true, CreatedBy: 1}},
		&repository.ActivityRecord{Activity: domain.Activity{ID: 11, Name: "Cleanup", IsActive: true, CreatedBy: 1}},
	)
	tasks := &stubTaskRows{rows: taskRows}
	users := &stubUsers{known: map[int64]bool{1: true}}
	return New(activities, tasks, users, nil), activities
}

func TestDeleteWithTasksIsSoft(t *testing.T) {
	svc, activities := fixture(
		domain.Task{ID: 1, ActivityID: 10, IsActive: true},
		domain.Task{ID: 2, ActivityID: 10, IsActive: true},
	)

	soft, err := svc.Delete(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, soft)

	// The row survives deactivated so task history keeps its join target.
	record, ok := activities.records[10]
	require.True(t, ok)
	assert.False(t, record.Activity.IsActive)
}

func TestDeleteWithOnlyInactiveTasksIsSoft(t *testing.T) {
	// Soft-deleted tasks still reference the activity; a physical delete
	// would break their foreign key, so the delete must stay soft.
	svc, activities := fixture(
		domain.Task{ID: 1, ActivityID: 10, IsActive: false},
	)

	soft, err := svc.Delete(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, soft)

	record, ok := activities.records[10]
	require.True(t, ok)
	assert.False(t, record.Activity.IsActive)
}

func TestDeleteWithoutTasksIsHard(t *testing.T) {
	svc, activities := fixture()

	soft, err := svc.Delete(context.Background(), 11)
	require.NoError(t, err)
	assert.False(t, soft)

	_, ok := activities.records[11]
	assert.False(t, ok)
}

func TestDeleteUnknownActivity(t *testing.T) {
	svc, _ := fixture()

	_, err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestCreateValidation(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{}, 1)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = svc.Create(ctx, CreateInput{Name: "Launch"}, 99)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeReference))

	created, err := svc.Create(ctx, CreateInput{Name: "Launch", Description: "Q4 launch"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Launch", created.Name)
	assert.Equal(t, int64(1), created.CreatedBy)
}

func TestCreateNameLengthCountsRunes(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	// Multibyte names within 200 characters pass even past 200 bytes.
	_, err := svc.Create(ctx, CreateInput{Name: strings.Repeat("ü", 150)}, 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Name: strings.Repeat("ü", 201)}, 1)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
