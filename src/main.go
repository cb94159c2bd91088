package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diary-app/src/config"
	"diary-app/src/database"
	"diary-app/src/domain"
	"diary-app/src/feed"
	"diary-app/src/infrastructure/gormstore"
	"diary-app/src/infrastructure/repository"
	"diary-app/src/interface/handler"
	"diary-app/src/logger"
	"diary-app/src/middleware"
	"diary-app/src/report"
	"diary-app/src/routes"
	"diary-app/src/scheduler"
	"diary-app/src/service"
	"diary-app/src/storage"
	"diary-app/src/usecase"
	"diary-app/src/validator"
	"diary-app/src/weather"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// backend is the opened record store and what the server needs from it
type backend struct {
	name      string
	store     *domain.Store
	publisher feed.Publisher
	health    func(ctx context.Context) error
	close     func()
}

func main() {
	// .env があれば読み込む（本番では環境変数を直接設定）
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	// `diary-app token <owner-id>` で所有者トークンを発行する
	if len(os.Args) == 3 && os.Args[1] == "token" {
		token, err := service.NewTokenService(cfg.Auth).GenerateToken(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Directory); err != nil {
		panic(fmt.Sprintf("ロガーの初期化に失敗: %v", err))
	}
	defer logger.CloseLogger()

	logger.Log.Info("アプリケーションを開始しています")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := feed.NewBroker(cfg.Feed.BufferSize, logger.Log)
	db, err := openBackend(ctx, cfg, broker)
	if err != nil {
		logger.Log.WithError(err).Fatal("データストアの初期化に失敗")
	}
	defer db.close()

	clock := usecase.NewClock(cfg.Calendar.Location())
	todoUsecase := usecase.NewTodoUsecase(db.store, db.publisher, clock)
	calendarUsecase := usecase.NewCalendarUsecase(db.store, db.publisher, clock)
	memoUsecase := usecase.NewMemoUsecase(db.store.Memos, db.publisher)
	ledgerUsecase := usecase.NewLedgerUsecase(db.store.Taxes, db.store.Approvals, db.publisher, clock)

	// S3はログ転送とレポート保存の両方で使う
	var uploader *storage.LogUploader
	var archiver usecase.ReportArchiver
	if cfg.Log.UploadEnabled || cfg.Report.ArchiveEnabled {
		s3Client, err := storage.NewS3Client(cfg.S3)
		if err != nil {
			logger.Log.WithError(err).Error("S3クライアントの初期化に失敗")
		} else {
			if cfg.Log.UploadEnabled {
				isCurrent := func(path string) bool { return path == logger.GetCurrentLogFile() }
				uploader = storage.NewLogUploader(s3Client, cfg.S3.Bucket, isCurrent, logger.Log)
			}
			if cfg.Report.ArchiveEnabled {
				archiver = storage.NewReportArchive(s3Client, cfg.S3.Bucket, cfg.Report.ArchivePrefix, logger.Log)
			}
		}
	}
	reportUsecase := usecase.NewReportUsecase(ledgerUsecase, report.NewRenderer(), archiver, clock)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	jobs, err := newScheduler(ctx, cfg, uploader, limiter)
	if err != nil {
		logger.Log.WithError(err).Fatal("スケジューラーの初期化に失敗")
	}
	jobs.Start()
	defer jobs.Stop()

	v := validator.NewCustomValidator()
	tokens := service.NewTokenService(cfg.Auth)
	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout, logger.Log)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(limiter))

	routes.SetupRoutes(r, routes.Handlers{
		Health:   handler.NewHealthHandler(db.name, db.health, logger.Log),
		Todo:     handler.NewTodoHandler(todoUsecase, v, logger.Log),
		Calendar: handler.NewCalendarHandler(calendarUsecase, v, logger.Log),
		Memo:     handler.NewMemoHandler(memoUsecase, v, logger.Log),
		Ledger:   handler.NewLedgerHandler(ledgerUsecase, v, logger.Log),
		Report:   handler.NewReportHandler(reportUsecase, v, logger.Log),
		Weather:  handler.NewWeatherHandler(weatherClient, cfg.Weather.DefaultLat, cfg.Weather.DefaultLon, v, logger.Log),
		Feed:     handler.NewFeedHandler(broker, cfg.Feed.Heartbeat, logger.Log),
	}, middleware.OwnerMiddleware(tokens))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"backend": db.name,
		}).Info("サーバーを開始します")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("サーバーの起動に失敗")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("シャットダウンシグナルを受信しました")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("サーバーの停止に失敗")
	}

	// 最後のログアップロードを実行
	if uploader != nil {
		logger.Log.Info("最後のログアップロードを実行中...")
		if _, err := uploader.UploadOldLogs(shutdownCtx, cfg.Log.Directory, 0); err != nil {
			logger.Log.WithError(err).Error("最後のログアップロードに失敗")
		}
	}
}

// openBackend opens PostgreSQL or the embedded SQLite store
func openBackend(ctx context.Context, cfg *config.Config, broker *feed.Broker) (*backend, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		gdb, err := gormstore.NewDB(cfg.Database.SQLitePath, logger.Log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		return &backend{
			name:      "sqlite",
			store:     gormstore.NewStore(gdb, logger.Log),
			publisher: broker,
			health:    sqlDB.PingContext,
			close:     func() { sqlDB.Close() },
		}, nil

	case "postgres":
		dbConfig := &database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		}
		db, err := database.NewDB(dbConfig, logger.Log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}

		b := &backend{
			name:      "postgres",
			store:     repository.NewStore(db, logger.Log),
			publisher: broker,
			health:    func(context.Context) error { return db.Health() },
			close:     func() { db.Close() },
		}
		if !cfg.Feed.Listen {
			return b, nil
		}

		// トリガーが変更を通知するので、ユースケースからは発行しない
		listener, err := feed.NewPGListener(dbConfig.DSN(), db, broker, logger.Log)
		if err != nil {
			db.Close()
			return nil, err
		}
		go listener.Run(ctx)
		b.publisher = feed.NopPublisher{}
		b.close = func() {
			listener.Close()
			db.Close()
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (postgres or sqlite)", cfg.Database.Driver)
	}
}

// newScheduler registers the maintenance jobs
func newScheduler(ctx context.Context, cfg *config.Config, uploader *storage.LogUploader, limiter *middleware.IPRateLimiter) (*scheduler.Scheduler, error) {
	jobs := scheduler.NewScheduler(cfg.Calendar.Location(), logger.Log)

	// 日付が変わったらログファイルを切り替える
	if _, err := jobs.ScheduleDaily("log-rotate", "00:00", func() {
		if err := logger.Rotate(); err != nil {
			logger.Log.WithError(err).Error("ログファイルの切り替えに失敗")
		}
	}); err != nil {
		return nil, err
	}

	if uploader != nil {
		if _, err := jobs.ScheduleInterval("log-upload", cfg.Log.UploadInterval, func() {
			n, err := uploader.UploadOldLogs(ctx, cfg.Log.Directory, cfg.Log.UploadMaxAge)
			if err != nil {
				logger.Log.WithError(err).Error("定期的なログアップロードに失敗")
				return
			}
			logger.Log.WithField("files", n).Info("定期的なログアップロードが完了しました")
		}); err != nil {
			return nil, err
		}
	}

	if _, err := jobs.ScheduleInterval("rate-limit-cleanup", 5*time.Minute, func() {
		if n := limiter.Cleanup(); n > 0 {
			logger.Log.WithField("removed", n).Debug("レート制限のエントリを整理しました")
		}
	}); err != nil {
		return nil, err
	}

	return jobs, nil
}
