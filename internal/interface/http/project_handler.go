package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

type ProjectHandler struct {
	Projects *application.ProjectService
}

func NewProjectHandler(projects *application.ProjectService) *ProjectHandler {
	return &ProjectHandler{Projects: projects}
}

// Create POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var in application.CreateProjectInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Projects.Create(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "project created", nil)
}

// Get GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Projects.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "project fetched", nil)
}
