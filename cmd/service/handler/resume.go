package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/resumid-ai/resumid/app/logic/v1"
	"github.com/resumid-ai/resumid/app/response"
	"github.com/resumid-ai/resumid/pkg/utils"
)

func (s *HttpSrv) CreateProject(c *gin.Context) {
	var req v1.CreateProjectArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	project, err := v1.NewResumeLogic(c, s.Core).CreateProject(c.Param("resumeid"), req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, project)
}

func (s *HttpSrv) UpdateProject(c *gin.Context) {
	var req v1.CreateProjectArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewResumeLogic(c, s.Core).UpdateProject(c.Param("resumeid"), c.Param("id"), req); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) DeleteProject(c *gin.Context) {
	if err := v1.NewResumeLogic(c, s.Core).DeleteProject(c.Param("resumeid"), c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) CreateBulletPoint(c *gin.Context) {
	var req v1.CreateBulletPointArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	bullet, err := v1.NewResumeLogic(c, s.Core).CreateBulletPoint(c.Param("resumeid"), req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, bullet)
}

type UpdateContentRequest struct {
	Content  string `json:"content" binding:"required"`
	Position int    `json:"position"`
}

func (s *HttpSrv) UpdateBulletPoint(c *gin.Context) {
	var req UpdateContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewResumeLogic(c, s.Core).UpdateBulletPoint(c.Param("resumeid"), c.Param("id"), req.Content, req.Position); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) DeleteBulletPoint(c *gin.Context) {
	if err := v1.NewResumeLogic(c, s.Core).DeleteBulletPoint(c.Param("resumeid"), c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) CreateBranch(c *gin.Context) {
	var req v1.CreateBranchArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	branch, err := v1.NewResumeLogic(c, s.Core).CreateBranch(c.Param("resumeid"), req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, branch)
}

func (s *HttpSrv) UpdateBranch(c *gin.Context) {
	var req UpdateContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewResumeLogic(c, s.Core).UpdateBranch(c.Param("resumeid"), c.Param("id"), req.Content, req.Position); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) DeleteBranch(c *gin.Context) {
	if err := v1.NewResumeLogic(c, s.Core).DeleteBranch(c.Param("resumeid"), c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) CreatePage(c *gin.Context) {
	var req v1.CreatePageArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	page, err := v1.NewResumeLogic(c, s.Core).CreatePage(c.Param("resumeid"), req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, page)
}

func (s *HttpSrv) UpdatePage(c *gin.Context) {
	var req v1.CreatePageArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewResumeLogic(c, s.Core).UpdatePage(c.Param("resumeid"), c.Param("id"), req); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) DeletePage(c *gin.Context) {
	if err := v1.NewResumeLogic(c, s.Core).DeletePage(c.Param("resumeid"), c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) CreateAudioSummary(c *gin.Context) {
	var req v1.CreateAudioSummaryArgs
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	audio, err := v1.NewResumeLogic(c, s.Core).CreateAudioSummary(c.Param("resumeid"), req)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, audio)
}

func (s *HttpSrv) DeleteAudioSummary(c *gin.Context) {
	if err := v1.NewResumeLogic(c, s.Core).DeleteAudioSummary(c.Param("resumeid"), c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}
