package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

type UserHandler struct {
	Users   *application.UserService
	Members *application.MembershipService
	Logger  *logrus.Logger
}

func NewUserHandler(users *application.UserService, members *application.MembershipService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Members: members, Logger: logger}
}

// Create POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var in application.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Users.Create(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

// AssignProject POST /api/users/create-project
func (h *UserHandler) AssignProject(c *gin.Context) {
	var in application.AssignInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.Members.Assign(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m, "user assigned to project", nil)
}

// List GET /api/users?page=&limit=&search=
func (h *UserHandler) List(c *gin.Context) {
	var fields []apperror.FieldError
	intQuery := func(name string) int {
		raw := c.Query(name)
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, apperror.FieldError{Field: name, Message: "must be a positive integer"})
		}
		return n
	}
	in := application.ListUsersInput{Page: intQuery("page"), Limit: intQuery("limit"), Search: c.Query("search")}
	if len(fields) > 0 {
		response.Fail(c, apperror.Validation(fields))
		return
	}

	page, err := h.Users.List(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page, "users fetched", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Users.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "ok", nil)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	d, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, d, "user fetched", nil)
}

// Update PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var in application.UpdateUserInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Users.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted", nil)
}
