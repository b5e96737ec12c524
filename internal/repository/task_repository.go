package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-api/internal/model"
)

// TaskFilter narrows List by simple field equality. Nil fields are ignored.
type TaskFilter struct {
	Status     *model.TaskStatus
	Priority   *model.TaskPriority
	CategoryID *uint
}

// TaskRepository handles CRUD and counting queries for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		query = query.Where("priority = ?", *f.Priority)
	}
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}

	tasks := []model.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Save writes every column of task, including nil ones.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Delete removes a task; a missing id yields gorm.ErrRecordNotFound.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete task: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("category_id = ?", categoryID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks by category: %w", err)
	}
	return n, nil
}

// CountOverdue counts tasks due strictly before now that are not completed.
func (r *TaskRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	if err := r.overdue(ctx, now).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count overdue tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.overdue(ctx, now).Order("due_date ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) overdue(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("due_date IS NOT NULL AND due_date < ? AND status <> ?", now.UTC(), model.StatusCompleted)
}

type groupCount struct {
	Grp   string
	Total int64
}

func (r *TaskRepository) CountByStatus(ctx context.Context) (map[model.TaskStatus]int64, error) {
	rows, err := r.countGrouped(ctx, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[model.TaskStatus]int64, len(rows))
	for _, row := range rows {
		out[model.TaskStatus(row.Grp)] = row.Total
	}
	return out, nil
}

func (r *TaskRepository) CountByPriority(ctx context.Context) (map[model.TaskPriority]int64, error) {
	rows, err := r.countGrouped(ctx, "priority")
	if err != nil {
		return nil, err
	}
	out := make(map[model.TaskPriority]int64, len(rows))
	for _, row := range rows {
		out[model.TaskPriority(row.Grp)] = row.Total
	}
	return out, nil
}

func (r *TaskRepository) countGrouped(ctx context.Context, column string) ([]groupCount, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select(column + " AS grp, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tasks by %s: %w", column, err)
	}
	return rows, nil
}

// CountGroupedByCategory returns task counts keyed by category id; uncategorised tasks are skipped.
func (r *TaskRepository) CountGroupedByCategory(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Total      int64
	}
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("category_id, COUNT(*) AS total").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tasks per category: %w", err)
	}

	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.Total
	}
	return out, nil
}
