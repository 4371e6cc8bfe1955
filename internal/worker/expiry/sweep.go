// Package expiry は開始時刻から保持期間を過ぎた予約の定期削除ジョブを提供する。
// 直近に過ぎた予約は照会時の遅延削除に任せ、pastAppointmentの通知を残す。
package expiry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/beautyparlour/internal/metrics"
)

// DefaultRetention は期限切れ予約を残しておく期間のデフォルト値（30日）。
const DefaultRetention = 720 * time.Hour

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// sweepQuery は開始時刻（date + time、UTC）が保持期間より前の予約を削除する。
const sweepQuery = `DELETE FROM appointments
WHERE (date + time::time) < (now() AT TIME ZONE 'UTC') - $1::interval`

// SweepJob は保持期間を超過した予約の削除ジョブ。
// 冪等な削除処理で、削除対象がない場合もエラーにならない。
type SweepJob struct {
	db        Executor
	logger    *slog.Logger
	metrics   metrics.MetricsCollector
	Retention time.Duration // 開始時刻からの保持期間（デフォルト: 720h）
}

// NewSweepJob は新しいSweepJobを生成する。
// retentionが0以下の場合はDefaultRetentionを使用する。
func NewSweepJob(db Executor, logger *slog.Logger, collector metrics.MetricsCollector, retention time.Duration) *SweepJob {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if collector == nil {
		collector = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SweepJob{
		db:        db,
		logger:    logger,
		metrics:   collector,
		Retention: retention,
	}
}

// intervalParam はRetentionをPostgreSQLのinterval文字列に変換する。
func (j *SweepJob) intervalParam() string {
	return fmt.Sprintf("%d seconds", int64(j.Retention/time.Second))
}

// Run は保持期間を超過した予約を1回削除し、削除件数を返す。
func (j *SweepJob) Run(ctx context.Context) (int64, error) {
	start := time.Now()

	result, err := j.db.ExecContext(ctx, sweepQuery, j.intervalParam())
	if err != nil {
		j.logger.Error("期限切れ予約の削除に失敗しました",
			slog.String("error", err.Error()),
			slog.Duration("retention", j.Retention),
		)
		return 0, fmt.Errorf("期限切れ予約の削除に失敗: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	if deletedCount > 0 {
		j.metrics.RecordAppointmentsExpired(metrics.ExpiredBySweep, int(deletedCount))
	}

	j.logger.Info("期限切れ予約の削除ジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Duration("retention", j.Retention),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return deletedCount, nil
}

// Start は起動直後とinterval毎にRunを実行する。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *SweepJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("期限切れ予約の削除ジョブを開始しました",
		slog.Duration("interval", interval),
		slog.Duration("retention", j.Retention),
	)

	// 失敗はRun内でログ出力済みのため次回の実行を待つ
	_, _ = j.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("期限切れ予約の削除ジョブを停止しました")
			return
		case <-ticker.C:
			_, _ = j.Run(ctx)
		}
	}
}
