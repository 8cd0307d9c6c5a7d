package onboarding_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"dataguard-hris/internal/audit"
	"dataguard-hris/internal/onboarding"
	onboardingerrors "dataguard-hris/internal/onboarding/errors"
	"dataguard-hris/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeOnboardingRepository struct {
	withTxFn          func(tx *sql.Tx) onboarding.Repository
	createItemFn      func(ctx context.Context, item *onboarding.ChecklistItem) error
	findItemsFn       func(ctx context.Context) ([]onboarding.ChecklistItem, error)
	findItemByIDFn    func(ctx context.Context, id uuid.UUID) (*onboarding.ChecklistItem, error)
	updateItemFn      func(ctx context.Context, item *onboarding.ChecklistItem) error
	deleteItemFn      func(ctx context.Context, id uuid.UUID) error
	createTasksFn     func(ctx context.Context, tasks []*onboarding.Task) error
	findTasksByUserFn func(ctx context.Context, userID uuid.UUID) ([]onboarding.Task, error)
	findTaskByIDFn    func(ctx context.Context, id uuid.UUID) (*onboarding.Task, error)
	updateTaskFn      func(ctx context.Context, task *onboarding.Task) error
}

func (f *fakeOnboardingRepository) WithTx(tx *sql.Tx) onboarding.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOnboardingRepository) CreateItem(ctx context.Context, item *onboarding.ChecklistItem) error {
	if f.createItemFn != nil {
		return f.createItemFn(ctx, item)
	}
	return nil
}

func (f *fakeOnboardingRepository) FindItems(ctx context.Context) ([]onboarding.ChecklistItem, error) {
	if f.findItemsFn != nil {
		return f.findItemsFn(ctx)
	}
	return nil, nil
}

func (f *fakeOnboardingRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*onboarding.ChecklistItem, error) {
	if f.findItemByIDFn != nil {
		return f.findItemByIDFn(ctx, id)
	}
	return &onboarding.ChecklistItem{ID: id, Title: "Sign code of conduct"}, nil
}

func (f *fakeOnboardingRepository) UpdateItem(ctx context.Context, item *onboarding.ChecklistItem) error {
	if f.updateItemFn != nil {
		return f.updateItemFn(ctx, item)
	}
	return nil
}

func (f *fakeOnboardingRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if f.deleteItemFn != nil {
		return f.deleteItemFn(ctx, id)
	}
	return nil
}

func (f *fakeOnboardingRepository) CreateTasks(ctx context.Context, tasks []*onboarding.Task) error {
	if f.createTasksFn != nil {
		return f.createTasksFn(ctx, tasks)
	}
	return nil
}

func (f *fakeOnboardingRepository) FindTasksByUser(ctx context.Context, userID uuid.UUID) ([]onboarding.Task, error) {
	if f.findTasksByUserFn != nil {
		return f.findTasksByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeOnboardingRepository) FindTaskByID(ctx context.Context, id uuid.UUID) (*onboarding.Task, error) {
	if f.findTaskByIDFn != nil {
		return f.findTaskByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOnboardingRepository) UpdateTask(ctx context.Context, task *onboarding.Task) error {
	if f.updateTaskFn != nil {
		return f.updateTaskFn(ctx, task)
	}
	return nil
}

type recordingSink struct {
	records []audit.Record
}

func (r *recordingSink) Write(ctx context.Context, rec audit.Record) {
	r.records = append(r.records, rec)
}

func newMockDB(t *testing.T, commit bool) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
	return db
}

func TestOnboardingService_Assign(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	userID := uuid.New().String()
	itemID := uuid.New().String()

	t.Run("success creates pending tasks and audits", func(t *testing.T) {
		db := newMockDB(t, true)
		defer db.Close()

		var created []*onboarding.Task
		repo := &fakeOnboardingRepository{
			createTasksFn: func(ctx context.Context, tasks []*onboarding.Task) error {
				created = tasks
				return nil
			},
		}
		sink := &recordingSink{}
		svc := onboarding.NewService(db, repo, sink)

		resp, err := svc.Assign(ctx, actorID, onboarding.AssignRequest{
			UserID:  userID,
			ItemIDs: []string{itemID},
		})

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, onboarding.TaskStatusPending, resp[0].Status)
		assert.Len(t, created, 1)
		assert.Equal(t, userID, created[0].UserID.String())
		assert.Equal(t, actorID, created[0].AssignedBy.String())

		assert.Len(t, sink.records, 1)
		assert.Equal(t, "assign_onboarding", sink.records[0].Action)
		assert.Equal(t, actorID, sink.records[0].ActorID)
	})

	t.Run("negative unknown item", func(t *testing.T) {
		repo := &fakeOnboardingRepository{
			findItemByIDFn: func(ctx context.Context, id uuid.UUID) (*onboarding.ChecklistItem, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := onboarding.NewService(nil, repo, nil)

		_, err := svc.Assign(ctx, actorID, onboarding.AssignRequest{
			UserID:  userID,
			ItemIDs: []string{itemID},
		})
		assert.ErrorIs(t, err, onboardingerrors.ErrItemNotFound)
	})

	t.Run("negative duplicate assignment rolls back", func(t *testing.T) {
		db := newMockDB(t, false)
		defer db.Close()

		repo := &fakeOnboardingRepository{
			createTasksFn: func(ctx context.Context, tasks []*onboarding.Task) error {
				return errors.New(`ERROR: duplicate key value violates unique constraint "uq_onboarding_tasks_item_user"`)
			},
		}
		sink := &recordingSink{}
		svc := onboarding.NewService(db, repo, sink)

		_, err := svc.Assign(ctx, actorID, onboarding.AssignRequest{
			UserID:  userID,
			ItemIDs: []string{itemID},
		})
		assert.ErrorIs(t, err, onboardingerrors.ErrTaskAlreadyAssigned)
		assert.Empty(t, sink.records)
	})
}

func TestOnboardingService_ListTasks(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	otherID := uuid.New().String()

	t.Run("defaults to own tasks", func(t *testing.T) {
		repo := &fakeOnboardingRepository{
			findTasksByUserFn: func(ctx context.Context, userID uuid.UUID) ([]onboarding.Task, error) {
				assert.Equal(t, actorID, userID.String())
				return []onboarding.Task{{ID: uuid.New(), UserID: userID, Status: onboarding.TaskStatusPending}}, nil
			},
		}
		svc := onboarding.NewService(nil, repo, nil)

		resp, err := svc.ListTasks(ctx, actorID, "", false)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("hr may read another user's tasks", func(t *testing.T) {
		repo := &fakeOnboardingRepository{
			findTasksByUserFn: func(ctx context.Context, userID uuid.UUID) ([]onboarding.Task, error) {
				assert.Equal(t, otherID, userID.String())
				return nil, nil
			},
		}
		svc := onboarding.NewService(nil, repo, nil)

		_, err := svc.ListTasks(ctx, actorID, otherID, true)
		assert.NoError(t, err)
	})

	t.Run("negative non-hr reading another user is forbidden", func(t *testing.T) {
		svc := onboarding.NewService(nil, &fakeOnboardingRepository{}, nil)

		_, err := svc.ListTasks(ctx, actorID, otherID, false)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestOnboardingService_Toggle(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	taskID := uuid.New()

	t.Run("pending task becomes completed with timestamp", func(t *testing.T) {
		var saved *onboarding.Task
		repo := &fakeOnboardingRepository{
			findTaskByIDFn: func(ctx context.Context, id uuid.UUID) (*onboarding.Task, error) {
				return &onboarding.Task{ID: taskID, UserID: actorID, Status: onboarding.TaskStatusPending}, nil
			},
			updateTaskFn: func(ctx context.Context, task *onboarding.Task) error {
				saved = task
				return nil
			},
		}
		svc := onboarding.NewService(nil, repo, nil)

		resp, err := svc.Toggle(ctx, actorID.String(), taskID.String())
		assert.NoError(t, err)
		assert.Equal(t, onboarding.TaskStatusCompleted, resp.Status)
		assert.NotNil(t, resp.CompletedAt)
		assert.WithinDuration(t, time.Now().UTC(), *saved.CompletedAt, time.Minute)
	})

	t.Run("completed task reverts to pending and clears timestamp", func(t *testing.T) {
		done := time.Now().UTC().Add(-time.Hour)
		repo := &fakeOnboardingRepository{
			findTaskByIDFn: func(ctx context.Context, id uuid.UUID) (*onboarding.Task, error) {
				return &onboarding.Task{
					ID: taskID, UserID: actorID,
					Status: onboarding.TaskStatusCompleted, CompletedAt: &done,
				}, nil
			},
		}
		svc := onboarding.NewService(nil, repo, nil)

		resp, err := svc.Toggle(ctx, actorID.String(), taskID.String())
		assert.NoError(t, err)
		assert.Equal(t, onboarding.TaskStatusPending, resp.Status)
		assert.Nil(t, resp.CompletedAt)
	})

	t.Run("negative toggling someone else's task", func(t *testing.T) {
		repo := &fakeOnboardingRepository{
			findTaskByIDFn: func(ctx context.Context, id uuid.UUID) (*onboarding.Task, error) {
				return &onboarding.Task{ID: taskID, UserID: uuid.New(), Status: onboarding.TaskStatusPending}, nil
			},
		}
		svc := onboarding.NewService(nil, repo, nil)

		_, err := svc.Toggle(ctx, actorID.String(), taskID.String())
		assert.ErrorIs(t, err, onboardingerrors.ErrNotTaskOwner)
	})

	t.Run("negative unknown task", func(t *testing.T) {
		svc := onboarding.NewService(nil, &fakeOnboardingRepository{}, nil)

		_, err := svc.Toggle(ctx, actorID.String(), taskID.String())
		assert.ErrorIs(t, err, onboardingerrors.ErrTaskNotFound)
	})
}
