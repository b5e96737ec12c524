package model

// Stats is a point-in-time aggregate over all tasks and categories.
type Stats struct {
	TotalTasks      int64                  `json:"total_tarefas"`
	TotalCategories int64                  `json:"total_categorias"`
	OverdueTasks    int64                  `json:"tarefas_vencidas"`
	ByStatus        map[TaskStatus]int64   `json:"por_status"`
	ByPriority      map[TaskPriority]int64 `json:"por_prioridade"`
}
