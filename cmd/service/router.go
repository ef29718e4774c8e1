package service

import (
	"github.com/gin-gonic/gin"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/app/response"
	"github.com/resumid-ai/resumid/cmd/service/handler"
	"github.com/resumid-ai/resumid/cmd/service/middleware"
	"github.com/resumid-ai/resumid/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func setupHttpRouter(s *handler.HttpSrv) {
	s.Engine.Use(gin.Recovery(), middleware.Cors(), middleware.I18n(), response.NewResponse(), middleware.Observe(s.Core))

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	api := s.Engine.Group("/api/v1")
	resume := api.Group("/resumes/:resumeid")
	{
		resume.POST("/search", s.Search)
		resume.PUT("/chunks", s.ReplaceSourceChunks)
		resume.DELETE("/chunks", s.DeleteSourceChunks)
		resume.GET("/idmap", s.GetIdMap)
		resume.POST("/citations/resolve", s.ResolveCitations)

		resume.POST("/projects", s.CreateProject)
		resume.PUT("/projects/:id", s.UpdateProject)
		resume.DELETE("/projects/:id", s.DeleteProject)

		resume.POST("/bullets", s.CreateBulletPoint)
		resume.PUT("/bullets/:id", s.UpdateBulletPoint)
		resume.DELETE("/bullets/:id", s.DeleteBulletPoint)

		resume.POST("/branches", s.CreateBranch)
		resume.PUT("/branches/:id", s.UpdateBranch)
		resume.DELETE("/branches/:id", s.DeleteBranch)

		resume.POST("/pages", s.CreatePage)
		resume.PUT("/pages/:id", s.UpdatePage)
		resume.DELETE("/pages/:id", s.DeletePage)

		resume.POST("/audio-summaries", s.CreateAudioSummary)
		resume.DELETE("/audio-summaries/:id", s.DeleteAudioSummary)
	}
}
