package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/resumid-ai/resumid/app/logic/v1"
	"github.com/resumid-ai/resumid/app/response"
	"github.com/resumid-ai/resumid/pkg/types"
	"github.com/resumid-ai/resumid/pkg/utils"
)

type ReplaceSourceChunksRequest struct {
	SourceType string `json:"source_type" binding:"required"`
	SourceID   string `json:"source_id" binding:"required"`
	Text       string `json:"text"`
	// Async returns immediately and indexes in the background.
	Async bool `json:"async"`
}

// ReplaceSourceChunks re-indexes the text of one source entity.
func (s *HttpSrv) ReplaceSourceChunks(c *gin.Context) {
	var req ReplaceSourceChunksRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	resumeID := c.Param("resumeid")
	sourceType := types.SourceTypeFromString(req.SourceType)
	logic := v1.NewKnowledgeLogic(c, s.Core)

	if req.Async {
		logic.AsyncReplaceSourceChunks(resumeID, sourceType, req.SourceID, req.Text)
		response.APISuccess(c, response.EmptyStruct{})
		return
	}

	if err := logic.ReplaceSourceChunks(resumeID, sourceType, req.SourceID, req.Text); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

type DeleteSourceChunksRequest struct {
	SourceType string `json:"source_type" binding:"required"`
	SourceID   string `json:"source_id" binding:"required"`
}

func (s *HttpSrv) DeleteSourceChunks(c *gin.Context) {
	var req DeleteSourceChunksRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	resumeID := c.Param("resumeid")
	err := v1.NewKnowledgeLogic(c, s.Core).DeleteSourceChunks(resumeID, types.SourceTypeFromString(req.SourceType), req.SourceID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}
