package onboarding_test

import (
	"context"
	"database/sql"
	"testing"

	"dataguard-hris/internal/onboarding"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupOnboardingRepoTest(t *testing.T) (onboarding.Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	return onboarding.NewRepository(gormDB), mock, db
}

func TestOnboardingRepository_CreateTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("batch insert runs on the caller's transaction", func(t *testing.T) {
		repo, mock, db := setupOnboardingRepoTest(t)
		defer db.Close()

		userID := uuid.New()
		assignedBy := uuid.New()
		tasks := []*onboarding.Task{
			{ID: uuid.New(), ItemID: uuid.New(), UserID: userID, Status: onboarding.TaskStatusPending, AssignedBy: assignedBy},
			{ID: uuid.New(), ItemID: uuid.New(), UserID: userID, Status: onboarding.TaskStatusPending, AssignedBy: assignedBy},
		}

		mock.ExpectBegin()
		tx, err := db.Begin()
		assert.NoError(t, err)

		mock.ExpectQuery(`INSERT INTO "onboarding_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
				AddRow(tasks[0].ID.String(), tasks[0].Status).
				AddRow(tasks[1].ID.String(), tasks[1].Status))

		err = repo.WithTx(tx).CreateTasks(ctx, tasks)
		assert.NoError(t, err)

		// Rolling back discards both inserts: the batch never commits on
		// its own.
		mock.ExpectRollback()
		assert.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
