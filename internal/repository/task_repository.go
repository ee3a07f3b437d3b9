package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// TaskRepository defines task persistence operations. The write methods run
// inside a single transaction so a bad category, user or subtask id rolls
// back the whole operation instead of leaving an orphaned task row.
type TaskRepository interface {
	List(ctx context.Context) ([]model.Task, error)
	FindByID(ctx context.Context, id uint) (*model.Task, error)
	CreateWithAssociations(ctx context.Context, task *model.Task, categoryIDs, userIDs []uint, newSubtasks []model.SubTask, subtaskIDs []uint) error
	ReplaceWithAssociations(ctx context.Context, task *model.Task, categoryIDs, userIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// byID keeps preloaded association slices in ascending id order, the order
// the display view's parallel arrays are built from.
func byID(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column)
	}
}

func (r *taskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Categories", byID("categories.id")).
		Preload("Users", byID("users.id")).
		Preload("Subtasks", byID("sub_tasks.id")).
		Order("tasks.id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Categories", byID("categories.id")).
		Preload("Users", byID("users.id")).
		Preload("Subtasks", byID("sub_tasks.id")).
		First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) CreateWithAssociations(ctx context.Context, task *model.Task, categoryIDs, userIDs []uint, newSubtasks []model.SubTask, subtaskIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, users, err := resolveAssociations(tx, categoryIDs, userIDs)
		if err != nil {
			return err
		}

		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if err := tx.Model(task).Association("Categories").Replace(&categories); err != nil {
			return err
		}
		if err := tx.Model(task).Association("Users").Replace(&users); err != nil {
			return err
		}

		for i := range newSubtasks {
			newSubtasks[i].TaskID = task.ID
		}
		if len(newSubtasks) > 0 {
			if err := tx.Create(&newSubtasks).Error; err != nil {
				return err
			}
		}
		if len(subtaskIDs) > 0 {
			res := tx.Model(&model.SubTask{}).Where("id IN ?", subtaskIDs).Update("task_id", task.ID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != int64(len(subtaskIDs)) {
				return apperrors.ErrSubTaskNotFound
			}
		}
		return nil
	})
}

// ReplaceWithAssociations overwrites all scalar fields and both
// associations of the task identified by task.ID.
func (r *taskRepository) ReplaceWithAssociations(ctx context.Context, task *model.Task, categoryIDs, userIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Task
		if err := tx.First(&existing, task.ID).Error; err != nil {
			return err
		}

		categories, users, err := resolveAssociations(tx, categoryIDs, userIDs)
		if err != nil {
			return err
		}

		err = tx.Model(&existing).
			Select("container", "title", "description", "due_date", "priority", "priority_img").
			Updates(map[string]interface{}{
				"container":    task.Container,
				"title":        task.Title,
				"description":  task.Description,
				"due_date":     task.DueDate,
				"priority":     task.Priority,
				"priority_img": task.PriorityImg,
			}).Error
		if err != nil {
			return err
		}
		if err := tx.Model(&existing).Association("Categories").Replace(&categories); err != nil {
			return err
		}
		return tx.Model(&existing).Association("Users").Replace(&users)
	})
}

// Delete removes the task, its subtasks and its join rows. Users and
// categories are untouched.
func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.SubTask{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&task).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&task).Association("Users").Clear(); err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

// resolveAssociations loads the referenced categories and users, failing
// when any id does not exist.
func resolveAssociations(tx *gorm.DB, categoryIDs, userIDs []uint) ([]model.Category, []model.User, error) {
	var categories []model.Category
	if len(categoryIDs) > 0 {
		if err := tx.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return nil, nil, err
		}
		if len(categories) != len(uniqueIDs(categoryIDs)) {
			return nil, nil, apperrors.ErrCategoryNotFound
		}
	}

	var users []model.User
	if len(userIDs) > 0 {
		if err := tx.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, nil, err
		}
		if len(users) != len(uniqueIDs(userIDs)) {
			return nil, nil, apperrors.ErrUserNotFound
		}
	}
	return categories, users, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
