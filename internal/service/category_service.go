package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"task-api/internal/model"
	"task-api/internal/repository"
)

const (
	msgNameRequired = "Nome é obrigatório"
	maxNameLen      = 100
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name        *string
	Description *string
	Color       *string
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name        model.Optional[string]
	Description model.Optional[string]
	Color       model.Optional[string]
	Keys        int
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Keys == 0 && !p.Name.Set && !p.Description.Set && !p.Color.Set
}

// taskCounter is the part of the task store the category service reads.
type taskCounter interface {
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	CountGroupedByCategory(ctx context.Context) (map[uint]int64, error)
}

// CategoryService provides CRUD around categories and guards deletion.
type CategoryService struct {
	repo     *repository.CategoryRepository
	taskRepo taskCounter
}

func NewCategoryService(repo *repository.CategoryRepository, taskRepo *repository.TaskRepository) *CategoryService {
	return &CategoryService{repo: repo, taskRepo: taskRepo}
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalidf(msgNameRequired)
	}
	if err := checkLen("Nome", *in.Name, maxNameLen); err != nil {
		return nil, err
	}
	if in.Color != nil {
		if err := checkColor(*in.Color); err != nil {
			return nil, err
		}
	}

	category := model.Category{
		Name:        *in.Name,
		Description: in.Description,
		Color:       in.Color,
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, storeErr("Erro ao criar categoria (nome já existe?)", err)
	}
	return &category, nil
}

// Get returns the category with its current task count.
func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fillTotal(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("Erro ao listar categorias", err)
	}
	totals, err := s.taskRepo.CountGroupedByCategory(ctx)
	if err != nil {
		return nil, storeErr("Erro ao listar categorias", err)
	}
	for i := range categories {
		categories[i].TotalTasks = totals[categories[i].ID]
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, p CategoryPatch) (*model.Category, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, invalidf(msgNoData)
	}

	if p.Name.Set {
		if p.Name.Null || strings.TrimSpace(p.Name.Value) == "" {
			return nil, invalidf(msgNameRequired)
		}
		if err := checkLen("Nome", p.Name.Value, maxNameLen); err != nil {
			return nil, err
		}
		category.Name = p.Name.Value
	}
	if p.Description.Set {
		category.Description = p.Description.Ptr()
	}
	if p.Color.Set {
		if !p.Color.Null {
			if err := checkColor(p.Color.Value); err != nil {
				return nil, err
			}
		}
		category.Color = p.Color.Ptr()
	}

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, storeErr("Erro ao atualizar categoria", err)
	}
	if err := s.fillTotal(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category that no task references. Otherwise it returns
// *CategoryInUseError with the number of blocking tasks.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	n, err := s.taskRepo.CountByCategory(ctx, id)
	if err != nil {
		return storeErr("Erro ao deletar categoria", err)
	}
	if n > 0 {
		return &CategoryInUseError{Tasks: n}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		// a task may have been attached between the count and the delete
		if n, cerr := s.taskRepo.CountByCategory(ctx, id); cerr == nil && n > 0 {
			return &CategoryInUseError{Tasks: n}
		}
		return storeErr("Erro ao deletar categoria", err)
	}
	return nil
}

func (s *CategoryService) find(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, storeErr("Erro ao buscar categoria", err)
	}
	return category, nil
}

func (s *CategoryService) fillTotal(ctx context.Context, category *model.Category) error {
	n, err := s.taskRepo.CountByCategory(ctx, category.ID)
	if err != nil {
		return storeErr("Erro ao contar tarefas da categoria", err)
	}
	category.TotalTasks = n
	return nil
}

func checkColor(color string) error {
	if !colorPattern.MatchString(color) {
		return invalidf("Cor inválida: %s. Use o formato #RRGGBB", color)
	}
	return nil
}
