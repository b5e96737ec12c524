package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"task-api/internal/model"
	"task-api/internal/repository"
)

// Notifier delivers a rendered digest somewhere.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// DigestService builds HTML summaries of overdue tasks for periodic notifications.
type DigestService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewDigestService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *DigestService {
	return &DigestService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

// OverdueDigest renders every overdue task as of now and returns how many were listed.
func (s *DigestService) OverdueDigest(ctx context.Context, now time.Time) (string, int, error) {
	tasks, err := s.taskRepo.ListOverdue(ctx, now)
	if err != nil {
		return "", 0, err
	}

	catNames, err := s.categoryRepo.Names(ctx)
	if err != nil {
		return "", 0, err
	}

	var builder strings.Builder
	builder.WriteString("⏰ <b>Tarefas vencidas</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02/01/2006")))

	if len(tasks) == 0 {
		builder.WriteString("— nenhuma tarefa vencida\n")
	} else {
		for _, task := range tasks {
			builder.WriteString(formatOverdue(task, catNames, now))
		}
	}

	return strings.TrimSpace(builder.String()), len(tasks), nil
}

// Notify sends the digest through n when at least one task is overdue.
func (s *DigestService) Notify(ctx context.Context, n Notifier, now time.Time) (int, error) {
	text, count, err := s.OverdueDigest(ctx, now)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	if err := n.Send(ctx, text); err != nil {
		return 0, fmt.Errorf("send digest: %w", err)
	}
	return count, nil
}

func formatOverdue(task model.Task, catNames map[uint]string, now time.Time) string {
	var sb strings.Builder

	icon := "⚠️"
	if task.Priority == model.PriorityHigh || task.Priority == model.PriorityUrgent {
		icon = "🔥"
	}

	title := html.EscapeString(strings.TrimSpace(task.Title))
	sb.WriteString(fmt.Sprintf("%s #%d %s", icon, task.ID, title))

	if task.CategoryID != nil {
		if name, ok := catNames[*task.CategoryID]; ok {
			trimmed := strings.TrimSpace(name)
			if trimmed != "" {
				sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(trimmed)))
			}
		}
	}

	if task.DueDate != nil {
		d := task.DueDate.In(now.Location())
		daysLate := int(now.Sub(d).Hours() / 24)
		if daysLate < 1 {
			sb.WriteString(fmt.Sprintf("\n   📅 venceu em %s · <b>hoje</b>", d.Format("2006-01-02")))
		} else {
			sb.WriteString(fmt.Sprintf("\n   📅 venceu em %s · há %d dia(s)", d.Format("2006-01-02"), daysLate))
		}
	}

	sb.WriteString(fmt.Sprintf("\n   📌 %s · %s", task.Status, task.Priority))

	if task.Owner != nil && strings.TrimSpace(*task.Owner) != "" {
		sb.WriteString(fmt.Sprintf("\n   👤 %s", html.EscapeString(strings.TrimSpace(*task.Owner))))
	}

	sb.WriteByte('\n')
	return sb.String()
}
