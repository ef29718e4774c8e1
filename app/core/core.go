package core

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/resumid-ai/resumid/app/core/srv"
	"github.com/resumid-ai/resumid/app/store"
	"github.com/resumid-ai/resumid/app/store/sqlstore"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	store      store.Store
	httpClient *http.Client
	httpEngine *gin.Engine

	metrics *Metrics
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28,   //days
				Compress:   true, // disabled by default
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("resumid", "core"),
		httpEngine: gin.New(),
	}

	setupSqlStore(core)

	core.srv = srv.SetupSrvs(srv.ApplyAI(cfg.AI))

	return core
}

// NewCore wires explicit dependencies. The cmd entrypoint uses
// MustSetupCore; tests inject in-memory stores and fake embedders here.
func NewCore(cfg CoreConfig, s store.Store, opts ...srv.ApplyFunc) *Core {
	return &Core{
		cfg:        cfg,
		store:      s,
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("resumid", "core"),
		httpEngine: gin.New(),
		srv:        srv.SetupSrvs(opts...),
	}
}

func setupSqlStore(core *Core) {
	stores := sqlstore.MustSetup(core.cfg.Postgres)
	if err := stores().Install(); err != nil {
		panic(err)
	}
	core.store = stores()
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Store() store.Store {
	return s.store
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) HttpClient() *http.Client {
	return s.httpClient
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}
