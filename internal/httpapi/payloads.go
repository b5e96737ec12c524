package httpapi

import (
	"task-api/internal/model"
	"task-api/internal/service"
)

type createTaskIn struct {
	Title       *string `json:"titulo"`
	Description *string `json:"descricao"`
	Status      *string `json:"status"`
	Priority    *string `json:"prioridade"`
	DueDate     *string `json:"data_vencimento"`
	Owner       *string `json:"responsavel"`
	CategoryID  *uint   `json:"categoria_id"`
}

func (in createTaskIn) toService() service.TaskInput {
	return service.TaskInput{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Owner:       in.Owner,
		CategoryID:  in.CategoryID,
	}
}

// Absent fields stay untouched, null clears nullable ones.
type patchTaskIn struct {
	Title       model.Optional[string] `json:"titulo"`
	Description model.Optional[string] `json:"descricao"`
	Status      model.Optional[string] `json:"status"`
	Priority    model.Optional[string] `json:"prioridade"`
	DueDate     model.Optional[string] `json:"data_vencimento"`
	Owner       model.Optional[string] `json:"responsavel"`
	CategoryID  model.Optional[uint]   `json:"categoria_id"`
}

func (in patchTaskIn) toService(keys int) service.TaskPatch {
	return service.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Owner:       in.Owner,
		CategoryID:  in.CategoryID,
		Keys:        keys,
	}
}

type createCategoryIn struct {
	Name        *string `json:"nome"`
	Description *string `json:"descricao"`
	Color       *string `json:"cor"`
}

func (in createCategoryIn) toService() service.CategoryInput {
	return service.CategoryInput{Name: in.Name, Description: in.Description, Color: in.Color}
}

type patchCategoryIn struct {
	Name        model.Optional[string] `json:"nome"`
	Description model.Optional[string] `json:"descricao"`
	Color       model.Optional[string] `json:"cor"`
}

func (in patchCategoryIn) toService(keys int) service.CategoryPatch {
	return service.CategoryPatch{Name: in.Name, Description: in.Description, Color: in.Color, Keys: keys}
}
