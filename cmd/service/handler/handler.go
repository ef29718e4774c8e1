package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/resumid-ai/resumid/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
