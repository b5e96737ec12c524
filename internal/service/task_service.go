package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"task-api/internal/model"
	"task-api/internal/repository"
)

const (
	msgTitleRequired = "Título é obrigatório"
	msgNoData        = "Dados não fornecidos"
	msgBadDueDate    = "Formato de data inválido. Use ISO format: YYYY-MM-DDTHH:MM:SS"

	maxTitleLen = 200
	maxOwnerLen = 100
)

// TaskInput represents data required to create a task. Nil pointers mean the
// field was not supplied.
type TaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	Owner       *string
	CategoryID  *uint
}

// TaskPatch is a partial update; only fields with Set are applied.
type TaskPatch struct {
	Title       model.Optional[string]
	Description model.Optional[string]
	Status      model.Optional[string]
	Priority    model.Optional[string]
	DueDate     model.Optional[string]
	Owner       model.Optional[string]
	CategoryID  model.Optional[uint]

	// Keys is how many keys the request payload carried, known or not.
	Keys int
}

// IsEmpty reports a patch with no payload at all. Unknown keys alone are a no-op update.
func (p TaskPatch) IsEmpty() bool {
	return p.Keys == 0 && !p.Title.Set && !p.Description.Set && !p.Status.Set && !p.Priority.Set &&
		!p.DueDate.Set && !p.Owner.Set && !p.CategoryID.Set
}

// TaskQuery holds raw list filters as received from the client.
type TaskQuery struct {
	Status     string
	Priority   string
	CategoryID string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	now          func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*model.Task, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, invalidf(msgTitleRequired)
	}
	if err := checkLen("Título", *in.Title, maxTitleLen); err != nil {
		return nil, err
	}

	task := model.Task{
		Title:       *in.Title,
		Description: in.Description,
		Status:      model.StatusPending,
		Priority:    model.PriorityMedium,
	}

	if in.Status != nil {
		st, ok := model.ParseStatus(*in.Status)
		if !ok {
			return nil, invalidf("Status inválido: %s", *in.Status)
		}
		task.Status = st
	}
	if in.Priority != nil {
		p, ok := model.ParsePriority(*in.Priority)
		if !ok {
			return nil, invalidf("Prioridade inválida: %s", *in.Priority)
		}
		task.Priority = p
	}
	if in.DueDate != nil {
		due, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}
	if in.Owner != nil {
		if err := checkLen("Responsável", *in.Owner, maxOwnerLen); err != nil {
			return nil, err
		}
		task.Owner = in.Owner
	}
	if in.CategoryID != nil {
		if err := s.ensureCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = in.CategoryID
	}

	if task.Status == model.StatusCompleted {
		completed := s.now().UTC()
		task.CompletedAt = &completed
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, categoryMissing(task.CategoryID)
		}
		return nil, storeErr("Erro ao criar tarefa", err)
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeErr("Erro ao buscar tarefa", err)
	}
	return task, nil
}

// List returns tasks matching every non-empty filter in q.
func (s *TaskService) List(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	var f repository.TaskFilter

	if q.Status != "" {
		st, ok := model.ParseStatus(q.Status)
		if !ok {
			return nil, invalidf("Status inválido: %s", q.Status)
		}
		f.Status = &st
	}
	if q.Priority != "" {
		p, ok := model.ParsePriority(q.Priority)
		if !ok {
			return nil, invalidf("Prioridade inválida: %s", q.Priority)
		}
		f.Priority = &p
	}
	if q.CategoryID != "" {
		id, err := strconv.ParseUint(q.CategoryID, 10, 0)
		if err != nil {
			return nil, invalidf("categoria_id inválido: %s", q.CategoryID)
		}
		cid := uint(id)
		f.CategoryID = &cid
	}

	tasks, err := s.taskRepo.List(ctx, f)
	if err != nil {
		return nil, storeErr("Erro ao listar tarefas", err)
	}
	return tasks, nil
}

// Update applies p to the task. The completion time is stamped on the first
// switch to concluida and kept afterwards.
func (s *TaskService) Update(ctx context.Context, id uint, p TaskPatch) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, invalidf(msgNoData)
	}

	if p.Title.Set {
		if p.Title.Null || strings.TrimSpace(p.Title.Value) == "" {
			return nil, invalidf(msgTitleRequired)
		}
		if err := checkLen("Título", p.Title.Value, maxTitleLen); err != nil {
			return nil, err
		}
		task.Title = p.Title.Value
	}
	if p.Description.Set {
		task.Description = p.Description.Ptr()
	}
	if p.Status.Set {
		st, ok := model.ParseStatus(p.Status.Value)
		if p.Status.Null || !ok {
			return nil, invalidf("Status inválido: %s", optText(p.Status))
		}
		task.Status = st
		if st == model.StatusCompleted && task.CompletedAt == nil {
			completed := s.now().UTC()
			task.CompletedAt = &completed
		}
	}
	if p.Priority.Set {
		pr, ok := model.ParsePriority(p.Priority.Value)
		if p.Priority.Null || !ok {
			return nil, invalidf("Prioridade inválida: %s", optText(p.Priority))
		}
		task.Priority = pr
	}
	if p.DueDate.Set {
		if p.DueDate.Null || strings.TrimSpace(p.DueDate.Value) == "" {
			task.DueDate = nil
		} else {
			due, err := parseDueDate(p.DueDate.Value)
			if err != nil {
				return nil, err
			}
			task.DueDate = &due
		}
	}
	if p.Owner.Set {
		if !p.Owner.Null {
			if err := checkLen("Responsável", p.Owner.Value, maxOwnerLen); err != nil {
				return nil, err
			}
		}
		task.Owner = p.Owner.Ptr()
	}
	if p.CategoryID.Set {
		if p.CategoryID.Null {
			task.CategoryID = nil
		} else {
			if err := s.ensureCategory(ctx, p.CategoryID.Value); err != nil {
				return nil, err
			}
			task.CategoryID = p.CategoryID.Ptr()
		}
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, categoryMissing(task.CategoryID)
		}
		return nil, storeErr("Erro ao atualizar tarefa", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id uint) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return storeErr("Erro ao deletar tarefa", err)
	}
	return nil
}

func (s *TaskService) ensureCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return categoryMissing(&id)
		}
		return storeErr("Erro ao buscar categoria", err)
	}
	return nil
}

func categoryMissing(id *uint) error {
	if id == nil {
		return invalidf("Categoria não encontrada")
	}
	return invalidf("Categoria não encontrada: %d", *id)
}

// Layouts accepted for due dates besides RFC 3339. Values without an offset are UTC.
var dueDateLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalidf(msgBadDueDate)
}

func checkLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalidf("%s deve ter no máximo %d caracteres", field, max)
	}
	return nil
}

func optText(o model.Optional[string]) string {
	if o.Null {
		return "null"
	}
	return o.Value
}
