package service

import (
	"context"
	"time"

	"task-api/internal/model"
	"task-api/internal/repository"
)

// StatsService aggregates task and category counts.
type StatsService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	now          func() time.Time
}

func NewStatsService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *StatsService {
	return &StatsService{taskRepo: taskRepo, categoryRepo: categoryRepo, now: time.Now}
}

// Compute reads every count at call time. Both breakdowns list each enum
// value, including those with no tasks.
func (s *StatsService) Compute(ctx context.Context) (*model.Stats, error) {
	const op = "Erro ao calcular estatísticas"

	total, err := s.taskRepo.Count(ctx)
	if err != nil {
		return nil, storeErr(op, err)
	}
	categories, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return nil, storeErr(op, err)
	}
	overdue, err := s.taskRepo.CountOverdue(ctx, s.now())
	if err != nil {
		return nil, storeErr(op, err)
	}
	byStatus, err := s.taskRepo.CountByStatus(ctx)
	if err != nil {
		return nil, storeErr(op, err)
	}
	byPriority, err := s.taskRepo.CountByPriority(ctx)
	if err != nil {
		return nil, storeErr(op, err)
	}

	stats := &model.Stats{
		TotalTasks:      total,
		TotalCategories: categories,
		OverdueTasks:    overdue,
		ByStatus:        make(map[model.TaskStatus]int64, len(model.Statuses())),
		ByPriority:      make(map[model.TaskPriority]int64, len(model.Priorities())),
	}
	for _, st := range model.Statuses() {
		stats.ByStatus[st] = byStatus[st]
	}
	for _, p := range model.Priorities() {
		stats.ByPriority[p] = byPriority[p]
	}
	return stats, nil
}
