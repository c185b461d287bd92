package core

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/leli-rentals/leli-assist/app/core/srv"
	"github.com/leli-rentals/leli-assist/app/store/sqlstore"
	"github.com/leli-rentals/leli-assist/pkg/cache"
	"github.com/leli-rentals/leli-assist/pkg/mailer"
	"github.com/leli-rentals/leli-assist/pkg/types"
	"github.com/leli-rentals/leli-assist/pkg/utils"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores     func() *sqlstore.Provider
	httpClient *http.Client
	httpEngine *gin.Engine

	limiter *Limiter
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	utils.SetupIDWorker(1)

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		httpEngine: gin.New(),
		limiter:    NewLimiter(cfg.Assistant.RateLimit),
	}

	setupSqlStore(core)

	core.srv = srv.SetupSrvs(
		srv.ApplyCache(setupCache(cfg)),
		srv.ApplyMailer(mailer.New(cfg.Mailer)),
	)

	return core
}

// setupCache prefers redis when configured, otherwise the single-node
// in-process cache.
func setupCache(cfg CoreConfig) types.Cache {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryCache()
	}
	return cache.NewRedisCache(redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}))
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

func (s *Core) Limiter() *Limiter {
	return s.limiter
}
