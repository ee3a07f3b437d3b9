package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Task{},
		&model.SubTask{},
		&model.AuthToken{},
	))
	return db
}

func seedBoard(t *testing.T, db *gorm.DB) (model.Category, model.User) {
	t.Helper()
	category := model.Category{Name: "Design", Color: "--variant03", NameTag: "De"}
	require.NoError(t, db.Create(&category).Error)
	user := model.User{Email: "jane@example.com", Name: "Jane Doe", NameTag: "JD", Color: "--variant05", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return category, user
}

func TestTaskRepository_CreateListDelete(t *testing.T) {
	db := newTestDB(t)
	category, user := seedBoard(t, db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	due := model.NewDate(2026, 10, 15)
	task := &model.Task{
		Container: model.ContainerToDo,
		Title:     "Write spec",
		DueDate:   &due,
		Priority:  model.PriorityUrgent,
	}
	err := repo.CreateWithAssociations(ctx, task,
		[]uint{category.ID}, []uint{user.ID},
		[]model.SubTask{{Name: "draft", Checked: false}}, nil)
	require.NoError(t, err)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, "Write spec", got.Title)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, category.ID, got.Categories[0].ID)
	require.Len(t, got.Users, 1)
	assert.Equal(t, "Jane Doe", got.Users[0].Name)
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, "draft", got.Subtasks[0].Name)
	assert.False(t, got.Subtasks[0].Checked)

	// Deleting the task takes its subtasks with it but leaves the user and
	// category rows alone.
	require.NoError(t, repo.Delete(ctx, got.ID))

	var subtaskCount, userCount, categoryCount int64
	require.NoError(t, db.Model(&model.SubTask{}).Count(&subtaskCount).Error)
	require.NoError(t, db.Model(&model.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&model.Category{}).Count(&categoryCount).Error)
	assert.Zero(t, subtaskCount)
	assert.EqualValues(t, 1, userCount)
	assert.EqualValues(t, 1, categoryCount)
}

func TestTaskRepository_CreateRollsBackOnBadAssociation(t *testing.T) {
	db := newTestDB(t)
	category, _ := seedBoard(t, db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	tests := []struct {
		name        string
		categoryIDs []uint
		userIDs     []uint
		subtaskIDs  []uint
		expected    error
	}{
		{"missing category", []uint{999}, nil, nil, apperrors.ErrCategoryNotFound},
		{"missing user", []uint{category.ID}, []uint{999}, nil, apperrors.ErrUserNotFound},
		{"missing subtask", []uint{category.ID}, nil, []uint{999}, apperrors.ErrSubTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &model.Task{Title: "doomed"}
			err := repo.CreateWithAssociations(ctx, task,
				tt.categoryIDs, tt.userIDs,
				[]model.SubTask{{Name: "orphan"}}, tt.subtaskIDs)
			assert.ErrorIs(t, err, tt.expected)

			// Nothing may survive the rollback.
			var taskCount, subtaskCount int64
			require.NoError(t, db.Model(&model.Task{}).Count(&taskCount).Error)
			require.NoError(t, db.Model(&model.SubTask{}).Count(&subtaskCount).Error)
			assert.Zero(t, taskCount)
			assert.Zero(t, subtaskCount)
		})
	}
}

func TestTaskRepository_AttachExistingSubtask(t *testing.T) {
	db := newTestDB(t)
	_, _ = seedBoard(t, db)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	loose := model.SubTask{Name: "loose end", Checked: true}
	require.NoError(t, db.Create(&loose).Error)

	task := &model.Task{Title: "collector"}
	err := repo.CreateWithAssociations(ctx, task, nil, nil,
		[]model.SubTask{{Name: "fresh"}}, []uint{loose.ID})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, "loose end", got.Subtasks[0].Name)
	assert.Equal(t, task.ID, got.Subtasks[0].TaskID)
	assert.Equal(t, "fresh", got.Subtasks[1].Name)
}

func TestTaskRepository_ReplaceWithAssociations(t *testing.T) {
	db := newTestDB(t)
	category, user := seedBoard(t, db)
	other := model.User{Email: "max@example.com", Name: "Max Muster", NameTag: "MM", IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := &model.Task{Container: model.ContainerToDo, Title: "before", Priority: "Low"}
	require.NoError(t, repo.CreateWithAssociations(ctx, task,
		[]uint{category.ID}, []uint{user.ID}, nil, nil))

	replacement := &model.Task{
		ID:        task.ID,
		Container: model.ContainerDone,
		Title:     "after",
		Priority:  model.PriorityUrgent,
	}
	require.NoError(t, repo.ReplaceWithAssociations(ctx, replacement, nil, []uint{other.ID}))

	got, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, model.ContainerDone, got.Container)
	assert.Nil(t, got.DueDate)
	assert.Empty(t, got.Categories)
	require.Len(t, got.Users, 1)
	assert.Equal(t, other.ID, got.Users[0].ID)

	err = repo.ReplaceWithAssociations(ctx, &model.Task{ID: 999}, nil, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DeleteClearsAssignmentsAndToken(t *testing.T) {
	db := newTestDB(t)
	category, user := seedBoard(t, db)
	require.NoError(t, db.Create(&model.AuthToken{Key: "tok", UserID: user.ID}).Error)

	taskRepo := NewTaskRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()

	task := &model.Task{Title: "survives"}
	require.NoError(t, taskRepo.CreateWithAssociations(ctx, task,
		[]uint{category.ID}, []uint{user.ID}, nil, nil))

	require.NoError(t, userRepo.Delete(ctx, user.ID))

	got, err := taskRepo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Users)
	require.Len(t, got.Categories, 1)

	var tokenCount int64
	require.NoError(t, db.Model(&model.AuthToken{}).Count(&tokenCount).Error)
	assert.Zero(t, tokenCount)

	err = userRepo.Delete(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTokenRepository_FindByKeyLoadsUser(t *testing.T) {
	db := newTestDB(t)
	_, user := seedBoard(t, db)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.AuthToken{Key: "tok", UserID: user.ID}))

	token, err := repo.FindByKey(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.User.ID)
	assert.Equal(t, "jane@example.com", token.User.Email)

	_, err = repo.FindByKey(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
