package service

import (
	"context"
	"errors"
	"testing"

	"task-api/internal/model"
	"task-api/internal/repository"
)

func TestCategoryServiceCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category, err := f.catSvc.Create(ctx, CategoryInput{Name: ptr("work"), Description: ptr("office"), Color: ptr("#3498DB")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if category.ID == 0 || category.Name != "work" || category.Color == nil || *category.Color != "#3498DB" {
		t.Fatalf("unexpected category: %+v", category)
	}

	cases := []struct {
		name string
		in   CategoryInput
		want string
	}{
		{"missing name", CategoryInput{}, msgNameRequired},
		{"blank name", CategoryInput{Name: ptr("  ")}, msgNameRequired},
		{"bad color", CategoryInput{Name: ptr("x"), Color: ptr("blue")}, "Cor inválida: blue. Use o formato #RRGGBB"},
		{"short color", CategoryInput{Name: ptr("x"), Color: ptr("#fff")}, "Cor inválida: #fff. Use o formato #RRGGBB"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.catSvc.Create(ctx, tc.in)
			if !errors.Is(err, ErrInvalidInput) || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCategoryServiceCreate_DuplicateName(t *testing.T) {
	f := newFixture(t)

	f.mustCreateCategory(t, "work")
	_, err := f.catSvc.Create(context.Background(), CategoryInput{Name: ptr("work")})

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *StoreError, got %v", err)
	}
	if storeErr.Msg != "Erro ao criar categoria (nome já existe?)" || storeErr.Detail() == "" {
		t.Fatalf("unexpected store error: %+v", storeErr)
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Fatal("duplicate name must not be reported as a client error")
	}
}

func TestCategoryServiceGetAndList_TaskTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	work := f.mustCreateCategory(t, "work")
	home := f.mustCreateCategory(t, "home")
	f.mustCreateTask(t, TaskInput{Title: ptr("a"), CategoryID: &work.ID})
	f.mustCreateTask(t, TaskInput{Title: ptr("b"), CategoryID: &work.ID})

	got, err := f.catSvc.Get(ctx, work.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalTasks != 2 {
		t.Fatalf("expected 2 tasks, got %d", got.TotalTasks)
	}

	list, err := f.catSvc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	totals := map[uint]int64{}
	for _, c := range list {
		totals[c.ID] = c.TotalTasks
	}
	if len(list) != 2 || totals[work.ID] != 2 || totals[home.ID] != 0 {
		t.Fatalf("unexpected totals: %v", totals)
	}

	if _, err := f.catSvc.Get(ctx, 999); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryServiceUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category, err := f.catSvc.Create(ctx, CategoryInput{Name: ptr("work"), Color: ptr("#000000")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.catSvc.Update(ctx, category.ID, CategoryPatch{
		Name:  model.Some("office"),
		Color: model.Null[string](),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "office" || updated.Color != nil {
		t.Fatalf("unexpected category: %+v", updated)
	}

	if _, err := f.catSvc.Update(ctx, category.ID, CategoryPatch{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty patch, got %v", err)
	}
	if same, err := f.catSvc.Update(ctx, category.ID, CategoryPatch{Keys: 1}); err != nil || same.Name != "office" {
		t.Fatalf("unknown keys only should be a no-op update, got %+v (%v)", same, err)
	}
	if _, err := f.catSvc.Update(ctx, category.ID, CategoryPatch{Color: model.Some("#12345G")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad color, got %v", err)
	}
	if _, err := f.catSvc.Update(ctx, 999, CategoryPatch{Name: model.Some("x")}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	f.mustCreateCategory(t, "home")
	_, err = f.catSvc.Update(ctx, category.ID, CategoryPatch{Name: model.Some("home")})
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *StoreError on rename to an existing name, got %v", err)
	}
}

func TestCategoryServiceDelete_BlockedByTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	work := f.mustCreateCategory(t, "work")
	f.mustCreateTask(t, TaskInput{Title: ptr("a"), CategoryID: &work.ID})
	f.mustCreateTask(t, TaskInput{Title: ptr("b"), CategoryID: &work.ID})

	err := f.catSvc.Delete(ctx, work.ID)
	var inUse *CategoryInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("expected *CategoryInUseError, got %v", err)
	}
	if inUse.Tasks != 2 {
		t.Fatalf("expected 2 blocking tasks, got %d", inUse.Tasks)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatal("in-use category should be a client error")
	}

	if _, err := f.catSvc.Get(ctx, work.ID); err != nil {
		t.Fatalf("category must survive: %v", err)
	}
	n, err := f.tasks.CountByCategory(ctx, work.ID)
	if err != nil || n != 2 {
		t.Fatalf("tasks must survive, got %d (%v)", n, err)
	}
}

func TestCategoryServiceDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.mustCreateCategory(t, "empty")
	if err := f.catSvc.Delete(ctx, category.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.catSvc.Delete(ctx, category.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

// staleCounter reports zero on its first count, as if the task that blocks the
// delete was inserted right after the check.
type staleCounter struct {
	*repository.TaskRepository
	calls int
}

func (c *staleCounter) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	c.calls++
	if c.calls == 1 {
		return 0, nil
	}
	return c.TaskRepository.CountByCategory(ctx, categoryID)
}

func TestCategoryServiceDelete_TaskAttachedAfterCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	work := f.mustCreateCategory(t, "work")
	f.mustCreateTask(t, TaskInput{Title: ptr("late"), CategoryID: &work.ID})

	counter := &staleCounter{TaskRepository: f.tasks}
	svc := &CategoryService{repo: f.categories, taskRepo: counter}

	err := svc.Delete(ctx, work.ID)
	var inUse *CategoryInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("expected *CategoryInUseError, got %v", err)
	}
	if inUse.Tasks != 1 || counter.calls != 2 {
		t.Fatalf("expected 1 blocking task after recount, got %d (calls=%d)", inUse.Tasks, counter.calls)
	}
	if _, err := f.catSvc.Get(ctx, work.ID); err != nil {
		t.Fatalf("category must survive: %v", err)
	}
}
