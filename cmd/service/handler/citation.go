package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/resumid-ai/resumid/app/logic/v1"
	"github.com/resumid-ai/resumid/app/response"
	"github.com/resumid-ai/resumid/pkg/utils"
)

// GetIdMap returns the alias map for a resume, used when assembling the
// assistant prompt.
func (s *HttpSrv) GetIdMap(c *gin.Context) {
	idMap, err := v1.NewCitationLogic(c, s.Core).BuildIdMap(c.Param("resumeid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, idMap)
}

type ResolveCitationsRequest struct {
	Text string `json:"text" binding:"required"`
}

// ResolveCitations maps citation markers in an assistant answer back to
// entity ids.
func (s *HttpSrv) ResolveCitations(c *gin.Context) {
	var req ResolveCitationsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewCitationLogic(c, s.Core).ResolveAnswer(c.Param("resumeid"), req.Text)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}
