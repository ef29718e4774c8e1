package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	v1 "github.com/resumid-ai/resumid/app/logic/v1"
	"github.com/resumid-ai/resumid/app/response"
	"github.com/resumid-ai/resumid/pkg/types"
	"github.com/resumid-ai/resumid/pkg/utils"
)

type SearchRequest struct {
	Query       string   `json:"query" binding:"required"`
	Limit       int      `json:"limit"`
	SourceTypes []string `json:"source_types"`
	MinScore    *float64 `json:"min_score"`
}

type SearchResponse struct {
	Hits []types.SearchHit `json:"hits"`
}

const defaultSearchLimit = 10

func (s *HttpSrv) Search(c *gin.Context) {
	var req SearchRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	resumeID := c.Param("resumeid")
	hits, err := v1.NewSearchLogic(c, s.Core).Search(resumeID, req.Query, types.SearchOptions{
		Limit:       req.Limit,
		SourceTypes: lo.Map(req.SourceTypes, func(item string, _ int) types.SourceType {
			return types.SourceTypeFromString(item)
		}),
		MinScore: req.MinScore,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, SearchResponse{Hits: hits})
}
