package handler

import (
	"net/http"

	"diary-app/src/middleware"
	"diary-app/src/usecase"
	"diary-app/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TodoHandler handles HTTP requests for todos, deadline tasks and schedules
type TodoHandler struct {
	base
	todos usecase.TodoUsecase
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todos usecase.TodoUsecase, v *validator.CustomValidator, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{base: newBase(v, logger), todos: todos}
}

// ListDailyTodos lists the daily todos
func (h *TodoHandler) ListDailyTodos(c *gin.Context) {
	todos, err := h.todos.ListDailyTodos(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err, "毎日のTODO取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(todos))
}

// CreateDailyTodo creates a daily todo
func (h *TodoHandler) CreateDailyTodo(c *gin.Context) {
	var req CreateDailyTodoRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	todo, err := h.todos.CreateDailyTodo(c.Request.Context(), middleware.OwnerID(c), req.Text)
	if err != nil {
		h.fail(c, err, "毎日のTODO作成")
		return
	}

	h.logger.WithField("todo_id", todo.ID).Info("毎日のTODOを作成しました")
	c.JSON(http.StatusCreated, todo)
}

// UpdateDailyTodo updates a daily todo
func (h *TodoHandler) UpdateDailyTodo(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateDailyTodoRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	todo, err := h.todos.UpdateDailyTodo(c.Request.Context(), middleware.OwnerID(c), id, usecase.UpdateDailyTodoRequest{
		Text:     req.Text,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.fail(c, err, "毎日のTODO更新")
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteDailyTodo deletes a daily todo
func (h *TodoHandler) DeleteDailyTodo(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.todos.DeleteDailyTodo(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		h.fail(c, err, "毎日のTODO削除")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMonthlyTodos lists the monthly todos
func (h *TodoHandler) ListMonthlyTodos(c *gin.Context) {
	todos, err := h.todos.ListMonthlyTodos(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err, "毎月のTODO取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(todos))
}

// CreateMonthlyTodo creates a monthly todo
func (h *TodoHandler) CreateMonthlyTodo(c *gin.Context) {
	var req CreateMonthlyTodoRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	todo, err := h.todos.CreateMonthlyTodo(c.Request.Context(), middleware.OwnerID(c), req.Text, req.RepeatDate)
	if err != nil {
		h.fail(c, err, "毎月のTODO作成")
		return
	}

	h.logger.WithField("todo_id", todo.ID).Info("毎月のTODOを作成しました")
	c.JSON(http.StatusCreated, todo)
}

// UpdateMonthlyTodo updates a monthly todo
func (h *TodoHandler) UpdateMonthlyTodo(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateMonthlyTodoRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	todo, err := h.todos.UpdateMonthlyTodo(c.Request.Context(), middleware.OwnerID(c), id, usecase.UpdateMonthlyTodoRequest{
		Text:       req.Text,
		RepeatDate: req.RepeatDate,
	})
	if err != nil {
		h.fail(c, err, "毎月のTODO更新")
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteMonthlyTodo deletes a monthly todo
func (h *TodoHandler) DeleteMonthlyTodo(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.todos.DeleteMonthlyTodo(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		h.fail(c, err, "毎月のTODO削除")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDeadlineTasks lists the deadline tasks
func (h *TodoHandler) ListDeadlineTasks(c *gin.Context) {
	tasks, err := h.todos.ListDeadlineTasks(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err, "期限付きタスク取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(tasks))
}

// CreateDeadlineTask creates a deadline task
func (h *TodoHandler) CreateDeadlineTask(c *gin.Context) {
	var req CreateDeadlineTaskRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.todos.CreateDeadlineTask(c.Request.Context(), middleware.OwnerID(c), usecase.CreateDeadlineTaskRequest{
		Text:         req.Text,
		CreatedDate:  req.CreatedDate,
		DeadlineDate: req.DeadlineDate,
	})
	if err != nil {
		h.fail(c, err, "期限付きタスク作成")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"deadline": task.DeadlineDate,
	}).Info("期限付きタスクを作成しました")
	c.JSON(http.StatusCreated, task)
}

// UpdateDeadlineTask updates a deadline task
func (h *TodoHandler) UpdateDeadlineTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateDeadlineTaskRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.todos.UpdateDeadlineTask(c.Request.Context(), middleware.OwnerID(c), id, usecase.UpdateDeadlineTaskRequest{
		Text:         req.Text,
		CreatedDate:  req.CreatedDate,
		DeadlineDate: req.DeadlineDate,
	})
	if err != nil {
		h.fail(c, err, "期限付きタスク更新")
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteDeadlineTask deletes a deadline task
func (h *TodoHandler) DeleteDeadlineTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.todos.DeleteDeadlineTask(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		h.fail(c, err, "期限付きタスク削除")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSchedules lists the specific schedules ordered by date
func (h *TodoHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.todos.ListSchedules(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err, "特定日スケジュール取得")
		return
	}
	c.JSON(http.StatusOK, listResponse(schedules))
}

// CreateSchedule creates a specific schedule
func (h *TodoHandler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	schedule, err := h.todos.CreateSchedule(c.Request.Context(), middleware.OwnerID(c), req.Text, req.ScheduleDate)
	if err != nil {
		h.fail(c, err, "特定日スケジュール作成")
		return
	}

	h.logger.WithField("schedule_id", schedule.ID).Info("特定日スケジュールを作成しました")
	c.JSON(http.StatusCreated, schedule)
}

// UpdateSchedule updates a specific schedule
func (h *TodoHandler) UpdateSchedule(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateScheduleRequestDTO
	if !h.bindJSON(c, &req) {
		return
	}

	schedule, err := h.todos.UpdateSchedule(c.Request.Context(), middleware.OwnerID(c), id, usecase.UpdateScheduleRequest{
		Text:         req.Text,
		ScheduleDate: req.ScheduleDate,
	})
	if err != nil {
		h.fail(c, err, "特定日スケジュール更新")
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// DeleteSchedule deletes a specific schedule
func (h *TodoHandler) DeleteSchedule(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.todos.DeleteSchedule(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		h.fail(c, err, "特定日スケジュール削除")
		return
	}
	c.Status(http.StatusNoContent)
}
