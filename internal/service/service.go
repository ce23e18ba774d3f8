package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seniorcare-reminder/internal/cache"
	"seniorcare-reminder/internal/clock"
	"seniorcare-reminder/internal/config"
	"seniorcare-reminder/internal/notifier"
	"seniorcare-reminder/internal/reconciler"
	"seniorcare-reminder/internal/repository"
	"seniorcare-reminder/internal/scan"
	"seniorcare-reminder/internal/state"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService 服药提醒服务（整合各层）
type ReminderService struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
	seniorID    string

	// 各层组件
	cacheManager *cache.CacheManager
	stateManager *cache.StateManager
	seniorsRepo  *repository.SeniorsRepository
	medsRepo     *repository.MedicationsRepository
	logsRepo     *repository.ReminderLogsRepository
	store        *state.Store
	mqttClient   *notifier.MQTTClient
	speech       *notifier.SpeechNotifier
	notice       *notifier.NoticeNotifier
	scanClient   *scan.Client
	reconciler   *reconciler.Reconciler
	clock        *clock.ReminderClock
	cron         *cron.Cron

	// 刷新防抖（同一时刻最多一次刷新在途）
	refreshing chan struct{}
}

// NewReminderService 创建服药提醒服务
func NewReminderService(cfg *config.Config, logger *zap.Logger, seniorID string) (*ReminderService, error) {
	// 1. 连接数据库
	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试数据库连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 2. 连接 Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	// 3. 连接 MQTT（语音/提示发布通道）
	mqttClient, err := notifier.NewMQTTClient(&cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mqtt: %w", err)
	}

	// 4. 创建 Repository 层
	seniorsRepo := repository.NewSeniorsRepository(db, logger)
	medsRepo := repository.NewMedicationsRepository(db, logger)
	logsRepo := repository.NewReminderLogsRepository(db, logger)

	// 5. 创建缓存层
	cacheManager := cache.NewCacheManager(cfg, redisClient, logger)
	stateManager := cache.NewStateManager(cfg, redisClient, logger)

	// 6. 创建内存快照与协作层
	store := state.NewStore()
	speech := notifier.NewSpeechNotifier(mqttClient, cfg.Reminder.TopicPrefix, seniorID, cfg.MQTT.QoS, logger)
	notice := notifier.NewNoticeNotifier(mqttClient, cfg.Reminder.TopicPrefix, seniorID, cfg.MQTT.QoS, cfg.Reminder.NoticeSeconds, logger)

	// 7. 创建处方扫描客户端
	scanClient := scan.NewClient(
		cfg.Scan.BaseURL,
		cfg.Scan.APIKey,
		time.Duration(cfg.Scan.Timeout)*time.Second,
		logger,
	)

	// 8. 创建确认协调器与提醒时钟
	recon := reconciler.NewReconciler(store, logsRepo, speech, logger)
	reminderClock := clock.NewReminderClock(cfg, store, stateManager, speech, notice, logger)

	svc := &ReminderService{
		config:       cfg,
		db:           db,
		redisClient:  redisClient,
		logger:       logger,
		seniorID:     seniorID,
		cacheManager: cacheManager,
		stateManager: stateManager,
		seniorsRepo:  seniorsRepo,
		medsRepo:     medsRepo,
		logsRepo:     logsRepo,
		store:        store,
		mqttClient:   mqttClient,
		speech:       speech,
		notice:       notice,
		scanClient:   scanClient,
		reconciler:   recon,
		clock:        reminderClock,
		cron:         cron.New(),
		refreshing:   make(chan struct{}, 1),
	}

	// 9. 每日零点滚动：重新派生新一天的计划
	if _, err := svc.cron.AddFunc("0 0 * * *", func() {
		if err := svc.RefreshAll(context.Background()); err != nil {
			logger.Error("Nightly refresh failed",
				zap.String("senior_id", seniorID),
				zap.Error(err),
			)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	return svc, nil
}

// Start 启动服务（阻塞直到 ctx 取消）
func (s *ReminderService) Start(ctx context.Context) error {
	s.logger.Info("Starting reminder service",
		zap.String("senior_id", s.seniorID),
	)

	// 启动前先完成一次全量刷新；数据库不可用时退回 Redis 缓存降级启动
	if err := s.RefreshAll(ctx); err != nil {
		if cacheErr := s.restoreFromCache(ctx); cacheErr != nil {
			return fmt.Errorf("initial refresh failed: %w", err)
		}
		s.logger.Warn("Started from cached schedule, will recover on next refresh",
			zap.String("senior_id", s.seniorID),
			zap.Error(err),
		)
	}

	// 启动每日滚动任务
	s.cron.Start()

	// 启动提醒时钟（轮询模式）
	if err := s.clock.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder clock: %w", err)
	}

	return nil
}

// Stop 停止服务
func (s *ReminderService) Stop() error {
	s.logger.Info("Stopping reminder service")

	// 停止每日滚动任务
	s.cron.Stop()

	// 断开 MQTT 连接
	s.mqttClient.Close()

	// 关闭数据库连接
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database",
			zap.Error(err),
		)
	}

	// 关闭 Redis 连接
	if err := s.redisClient.Close(); err != nil {
		s.logger.Error("Failed to close redis",
			zap.Error(err),
		)
	}

	return nil
}
