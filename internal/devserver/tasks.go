package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskdash/internal/devserver/models"
	"taskdash/internal/devserver/sqlite"
)

type createTaskRequest struct {
	Title string `json:"title"`
}

type updateTaskRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondMessage(c, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), currentUser(c).ID, req.Title)
	if err != nil {
		s.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		respondMessage(c, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Status != nil {
		if _, ok := models.ValidTaskStatuses[*req.Status]; !ok {
			respondMessage(c, http.StatusBadRequest, "Invalid status")
			return
		}
	}

	task, err := s.store.UpdateTask(c.Request.Context(), currentUser(c).ID, c.Param("id"),
		models.TaskChanges{Title: req.Title, Status: req.Status})
	if errors.Is(err, sqlite.ErrNotFound) {
		respondMessage(c, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		s.respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	err := s.store.DeleteTask(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		respondMessage(c, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		s.respondInternal(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Task deleted")
}
