package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const (
	taskListCacheKey    = "tasks:list"
	taskSummaryCacheKey = "tasks:summary"
	taskCacheTTL        = 5 * time.Minute
)

// TaskView is the denormalized listing shape the board frontend renders
// from. The assignedTo*/subtasks* arrays align index-wise and follow
// ascending id order. Field names are a frozen contract.
type TaskView struct {
	Container         string      `json:"container"`
	Category          []uint      `json:"category"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Date              *model.Date `json:"date"`
	Priority          string      `json:"priority"`
	PriorityImg       string      `json:"priorityImg"`
	Associates        []uint      `json:"associates"`
	AssignedTo        []string    `json:"assignedTo"`
	AssignedToNameTag []string    `json:"assignedToNameTag"`
	AssignedToColor   []string    `json:"assignedToColor"`
	Subtasks          []string    `json:"subtasks"`
	SubtasksChecked   []string    `json:"subtaskschecked"`
	ID                uint        `json:"id"`
}

// TaskSummary aggregates the board in the positional-key shape the summary
// widget expects: "0" urgent, "1" total, then one slot per column, "6" the
// earliest due date or null.
type TaskSummary struct {
	Urgent          int64   `json:"0"`
	Total           int64   `json:"1"`
	ToDo            int64   `json:"2"`
	AwaitFeedback   int64   `json:"3"`
	InProgress      int64   `json:"4"`
	Done            int64   `json:"5"`
	EarliestDueDate *string `json:"6"`
}

// SubtaskSpec is one element of a task payload's subtask list: either a new
// subtask object or the id of an existing one.
type SubtaskSpec struct {
	ID      uint
	Name    string
	Checked bool
	Ref     bool // true when the element was a bare id
}

// UnmarshalJSON accepts either a JSON number (existing subtask id) or an
// object with name/checked.
func (s *SubtaskSpec) UnmarshalJSON(data []byte) error {
	var id uint
	if err := json.Unmarshal(data, &id); err == nil {
		s.ID = id
		s.Ref = true
		return nil
	}
	var obj struct {
		Name    string `json:"name"`
		Checked bool   `json:"checked"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("subtask spec must be an id or an object: %w", err)
	}
	s.Name = obj.Name
	s.Checked = obj.Checked
	return nil
}

// TaskInput carries the scalar fields and associations of a create or
// replace payload.
type TaskInput struct {
	ID          uint          `json:"id"`
	Container   string        `json:"container"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     *model.Date   `json:"due_date"`
	Priority    string        `json:"priority"`
	PriorityImg string        `json:"priorityImg"`
	Categories  []uint        `json:"category"`
	Users       []uint        `json:"user"`
	Subtasks    []SubtaskSpec `json:"subtask"`
}

// TaskService exposes board operations. Every write returns the refreshed
// full listing, which is how the frontend re-renders the board.
type TaskService interface {
	List(ctx context.Context) ([]TaskView, error)
	Create(ctx context.Context, input TaskInput) ([]TaskView, error)
	Update(ctx context.Context, input TaskInput) ([]TaskView, error)
	Delete(ctx context.Context, id uint) ([]TaskView, error)
	Summary(ctx context.Context) (*TaskSummary, error)
}

type taskService struct {
	tasks repository.TaskRepository
	cache *cache.Client
}

// NewTaskService builds a TaskService with repository and cache.
func NewTaskService(tasks repository.TaskRepository, cache *cache.Client) TaskService {
	return &taskService{tasks: tasks, cache: cache}
}

func (s *taskService) List(ctx context.Context) ([]TaskView, error) {
	if data, _ := s.cache.Get(ctx, taskListCacheKey); data != nil {
		var cached []TaskView
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	views, err := s.listFresh(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(views); err == nil {
		_ = s.cache.Set(ctx, taskListCacheKey, payload, taskCacheTTL)
	}
	return views, nil
}

func (s *taskService) Create(ctx context.Context, input TaskInput) ([]TaskView, error) {
	task := input.toModel()

	var newSubtasks []model.SubTask
	var subtaskIDs []uint
	for _, spec := range input.Subtasks {
		if spec.Ref {
			subtaskIDs = append(subtaskIDs, spec.ID)
			continue
		}
		newSubtasks = append(newSubtasks, model.SubTask{Name: spec.Name, Checked: spec.Checked})
	}

	if err := s.tasks.CreateWithAssociations(ctx, task, input.Categories, input.Users, newSubtasks, subtaskIDs); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.listFresh(ctx)
}

func (s *taskService) Update(ctx context.Context, input TaskInput) ([]TaskView, error) {
	task := input.toModel()
	if err := s.tasks.ReplaceWithAssociations(ctx, task, input.Categories, input.Users); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	s.invalidate(ctx)
	return s.listFresh(ctx)
}

func (s *taskService) Delete(ctx context.Context, id uint) ([]TaskView, error) {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	s.invalidate(ctx)
	return s.listFresh(ctx)
}

// Summary makes a single pass over all tasks. A board where no task has a
// due date reports a null earliest date instead of failing.
func (s *taskService) Summary(ctx context.Context) (*TaskSummary, error) {
	if data, _ := s.cache.Get(ctx, taskSummaryCacheKey); data != nil {
		var cached TaskSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &TaskSummary{}
	var earliest *model.Date
	for i := range tasks {
		task := &tasks[i]
		summary.Total++
		if task.Priority == model.PriorityUrgent {
			summary.Urgent++
		}
		switch task.Container {
		case model.ContainerToDo:
			summary.ToDo++
		case model.ContainerAwaitFeedback:
			summary.AwaitFeedback++
		case model.ContainerInProgress:
			summary.InProgress++
		case model.ContainerDone:
			summary.Done++
		}
		if task.DueDate == nil || task.DueDate.IsZero() {
			continue
		}
		if earliest == nil || task.DueDate.Before(earliest.Time) {
			earliest = task.DueDate
		}
	}
	if earliest != nil {
		str := earliest.String()
		summary.EarliestDueDate = &str
	}

	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, taskSummaryCacheKey, payload, taskCacheTTL)
	}
	return summary, nil
}

// listFresh builds the display view straight from the store, bypassing the
// cache. Writes call it so the response reflects what was just committed.
func (s *taskService) listFresh(ctx context.Context) ([]TaskView, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, buildTaskView(&tasks[i]))
	}
	return views, nil
}

func (s *taskService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, taskListCacheKey, taskSummaryCacheKey)
}

func (in *TaskInput) toModel() *model.Task {
	return &model.Task{
		ID:          in.ID,
		Container:   in.Container,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		PriorityImg: in.PriorityImg,
	}
}

func buildTaskView(task *model.Task) TaskView {
	view := TaskView{
		Container:         task.Container,
		Category:          make([]uint, 0, len(task.Categories)),
		Title:             task.Title,
		Description:       task.Description,
		Date:              task.DueDate,
		Priority:          task.Priority,
		PriorityImg:       task.PriorityImg,
		Associates:        make([]uint, 0, len(task.Users)),
		AssignedTo:        make([]string, 0, len(task.Users)),
		AssignedToNameTag: make([]string, 0, len(task.Users)),
		AssignedToColor:   make([]string, 0, len(task.Users)),
		Subtasks:          make([]string, 0, len(task.Subtasks)),
		SubtasksChecked:   make([]string, 0, len(task.Subtasks)),
		ID:                task.ID,
	}
	for _, category := range task.Categories {
		view.Category = append(view.Category, category.ID)
	}
	for _, user := range task.Users {
		view.Associates = append(view.Associates, user.ID)
		view.AssignedTo = append(view.AssignedTo, user.Name)
		view.AssignedToNameTag = append(view.AssignedToNameTag, user.NameTag)
		view.AssignedToColor = append(view.AssignedToColor, user.Color)
	}
	for _, subtask := range task.Subtasks {
		view.Subtasks = append(view.Subtasks, subtask.Name)
		if subtask.Checked {
			view.SubtasksChecked = append(view.SubtasksChecked, "checked")
		} else {
			view.SubtasksChecked = append(view.SubtasksChecked, "unchecked")
		}
	}
	return view
}
