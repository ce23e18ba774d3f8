package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"seniorcare-reminder/internal/config"
	"seniorcare-reminder/internal/logger"
	"seniorcare-reminder/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "seniorcare-reminder")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. 获取老人ID（单住户部署，每个实例服务一位老人）
	seniorID := os.Getenv("SENIOR_ID")
	if seniorID == "" {
		log.Fatal("SENIOR_ID environment variable is required")
	}

	// 4. 创建服务
	reminderService, err := service.NewReminderService(cfg, log, seniorID)
	if err != nil {
		log.Fatal("Failed to create reminder service",
			zap.Error(err),
		)
	}
	defer reminderService.Stop()

	// 5. 创建上下文（支持优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. 启动服务（在 goroutine 中）
	serviceErrChan := make(chan error, 1)
	go func() {
		if err := reminderService.Start(ctx); err != nil {
			serviceErrChan <- err
		}
	}()

	// 7. 等待信号（优雅关闭）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
		cancel() // 取消上下文，停止时钟
	case err := <-serviceErrChan:
		log.Fatal("Service error",
			zap.Error(err),
		)
	}

	log.Info("Reminder service stopped")
}
