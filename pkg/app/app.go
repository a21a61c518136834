// Package app 提供应用程序的初始化和运行.
package app

import (
	contextPkg "context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/taskvault/pkg/api"
	appcache "github.com/yeisme/taskvault/pkg/cache"
	"github.com/yeisme/taskvault/pkg/configs"
	"github.com/yeisme/taskvault/pkg/internal/jobs"
	"github.com/yeisme/taskvault/pkg/internal/model"
	"github.com/yeisme/taskvault/pkg/internal/service"
	"github.com/yeisme/taskvault/pkg/internal/state"
	"github.com/yeisme/taskvault/pkg/internal/storage"
	"github.com/yeisme/taskvault/pkg/log"
	"github.com/yeisme/taskvault/pkg/metrics"
	"github.com/yeisme/taskvault/pkg/middleware"
	"github.com/yeisme/taskvault/pkg/scheduler"
	"github.com/yeisme/taskvault/pkg/tracing"
)

// App 聚合 HTTP 引擎与后台组件的生命周期.
type App struct {
	Engine *gin.Engine

	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
	state   *state.Store

	ctx    contextPkg.Context
	cancel contextPkg.CancelFunc
}

// NewApp 初始化配置、存储、状态缓存、调度器与事件消费者，并装配 gin 引擎.
// 任何一步失败都视为致命错误直接退出.
func NewApp(configPath string) *App {
	ctx, cancel := contextPkg.WithCancel(contextPkg.Background())
	engine := gin.New()

	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()

	if err := migrate(manager); err != nil {
		l.Fatal().Err(err).Msg("database migration failed")
	}

	// 状态缓存：先尝试从 KV 恢复快照，再以数据库为准重建
	st := state.NewStore(manager.KV)
	if err := st.Load(ctx); err != nil {
		l.Warn().Err(err).Msg("state snapshot load failed, starting empty")
	}

	taskSvc := service.NewTaskServiceWith(manager.DB.GetDB(), st)
	if err := service.RebuildState(ctx, taskSvc, st); err != nil {
		l.Warn().Err(err).Msg("state rebuild from database failed")
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		l.Fatal().Err(err).Msg("scheduler init failed")
	}

	if err := jobs.RegisterCronJobs(sched, manager, st); err != nil {
		l.Fatal().Err(err).Msg("cron job registration failed")
	}

	sched.Start()

	if err := jobs.StartEventWorker(ctx, manager, st); err != nil {
		l.Warn().Err(err).Msg("event worker start failed, notifications disabled")
	}

	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.AuthMiddleware(config.Auth),
		middleware.RoleMiddleware(),
		middleware.RateLimitMiddleware(config.Ratelim),
		middleware.CircuitBreakerMiddleware(config.Breaker),
		middleware.CacheMiddleware(middleware.DefaultCacheConfig(appcache.NewCache(manager.KV))),
		middleware.StorageMiddleware(manager),
		middleware.StateMiddleware(st),
		middleware.SchedulerMiddleware(sched),
	)

	api.RegisterGroup(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
		state:   st,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run 启动 HTTP 服务并阻塞，收到 SIGINT/SIGTERM 后优雅关停.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	notifyCtx, stop := signal.NotifyContext(a.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(notifyCtx)

	g.Go(func() error {
		log.Logger().Info().Str("addr", srv.Addr).Msg("taskvault listening")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := contextPkg.WithTimeout(contextPkg.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	a.shutdown()

	return err
}

// shutdown 依次停止后台组件并落盘状态快照.
func (a *App) shutdown() {
	l := log.Logger()

	a.cancel()

	if err := a.sched.Shutdown(); err != nil {
		l.Warn().Err(err).Msg("scheduler shutdown failed")
	}

	flushCtx, cancel := contextPkg.WithTimeout(contextPkg.Background(), 5*time.Second)
	defer cancel()

	if err := a.state.Close(flushCtx); err != nil {
		l.Warn().Err(err).Msg("state snapshot flush failed")
	}

	if err := a.manager.Close(); err != nil {
		l.Warn().Err(err).Msg("storage close failed")
	}

	if err := tracing.ShutdownTracer(flushCtx); err != nil {
		l.Warn().Err(err).Msg("tracer shutdown failed")
	}
}

// migrate 建表，幂等.
func migrate(manager *storage.Manager) error {
	return manager.DB.GetDB().AutoMigrate(
		&model.Project{},
		&model.Task{},
		&model.Comment{},
		&model.Attachment{},
		&model.Notification{},
	)
}
