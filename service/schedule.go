package service

import (
	"context"
	"time"

	"github.com/BerniceZTT/vet_admin/repository"
	"github.com/BerniceZTT/vet_admin/utils"
)

// ScheduleDailyTaskAt 每天指定时间执行任务，ctx 结束后停止
func ScheduleDailyTaskAt(ctx context.Context, hour, min, sec int, task func(ctx context.Context)) {
	go func() {
		for {
			timer := time.NewTimer(time.Until(nextRunAt(time.Now(), hour, min, sec)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				task(ctx)
			}
		}
	}()
}

// nextRunAt now 之后（不含）最近一次 hour:min:sec
func nextRunAt(now time.Time, hour, min, sec int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// PurgeOperationLogs 删除早于保留期的操作日志
func PurgeOperationLogs(store repository.OperationLogStore, retention time.Duration) func(ctx context.Context) {
	return func(ctx context.Context) {
		before := time.Now().Add(-retention)
		utils.Logger.Info().Time("before", before).Msg("开始清理操作日志")

		removed, err := store.Purge(ctx, before)
		if err != nil {
			utils.Logger.Error().Err(err).Msg("清理操作日志失败")
			return
		}
		utils.Logger.Info().Int64("removed", removed).Msg("操作日志清理完成")
	}
}

// RunSessionSweeper 定期清理空闲会话的视图状态和删除流程，ctx 结束后返回
func RunSessionSweeper(ctx context.Context, sessions *Sessions, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(maxIdle); n > 0 {
				utils.Logger.Debug().Int("sessions", n).Msg("清理空闲会话")
			}
		}
	}
}
