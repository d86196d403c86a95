package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes under the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
