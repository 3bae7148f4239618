package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lcyeh/review-relay-go/internal/config"
)

// ErrDisabled 表示用量統計資料庫未啟用。
var ErrDisabled = errors.New("usage database disabled")

// Repository 負責用量資料庫存取。連線延遲建立，
// 資料庫未啟用時所有操作回傳 ErrDisabled。
type Repository struct {
	cfg    *config.Config
	logger *slog.Logger
	mu     sync.Mutex
	db     *gorm.DB
	sqlDB  *sql.DB
}

// NewRepository 建立用量儲存庫。
func NewRepository(cfg *config.Config, logger *slog.Logger) *Repository {
	return &Repository{
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled 回傳用量統計是否啟用。
func (r *Repository) Enabled() bool {
	return r != nil && r.cfg != nil && r.cfg.Database.Enabled
}

// RecordUsage 將指定日期（零值代表今天）的 token 用量累加寫入。
// 同一天的資料列以 upsert 累加，避免並行寫入互相覆蓋。
func (r *Repository) RecordUsage(
	ctx context.Context,
	inputTokens int64,
	outputTokens int64,
	requestCount int64,
	usageDate time.Time,
) error {
	if requestCount <= 0 && inputTokens <= 0 && outputTokens <= 0 {
		return nil
	}

	db, err := r.getDB()
	if err != nil {
		return err
	}

	targetDate := usageDate
	if targetDate.IsZero() {
		targetDate = todayDate()
	}

	row := TokenUsage{
		UsageDate:    targetDate,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		RequestCount: requestCount,
		Version:      0,
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "usage_date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"input_tokens":  gorm.Expr("token_usage.input_tokens + EXCLUDED.input_tokens"),
			"output_tokens": gorm.Expr("token_usage.output_tokens + EXCLUDED.output_tokens"),
			"request_count": gorm.Expr("token_usage.request_count + EXCLUDED.request_count"),
			"version":       gorm.Expr("token_usage.version + 1"),
		}),
	}).Create(&row).Error
}

// GetDailyUsage 查詢指定日期（零值代表今天）的用量，查無資料時回傳 nil。
func (r *Repository) GetDailyUsage(ctx context.Context, usageDate time.Time) (*DailyUsage, error) {
	db, err := r.getDB()
	if err != nil {
		return nil, err
	}

	targetDate := usageDate
	if targetDate.IsZero() {
		targetDate = todayDate()
	}

	var row TokenUsage
	result := db.WithContext(ctx).Where("usage_date = ?", targetDate).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &DailyUsage{
		UsageDate:    row.UsageDate,
		InputTokens:  row.InputTokens,
		OutputTokens: row.OutputTokens,
		RequestCount: row.RequestCount,
	}, nil
}

// GetRecentUsage 查詢最近 N 日的用量，新的在前。
func (r *Repository) GetRecentUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	db, err := r.getDB()
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}

	var rows []TokenUsage
	if err := db.WithContext(ctx).Order("usage_date desc").Limit(days).Find(&rows).Error; err != nil {
		return nil, err
	}

	usages := make([]DailyUsage, 0, len(rows))
	for _, row := range rows {
		usages = append(usages, DailyUsage{
			UsageDate:    row.UsageDate,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			RequestCount: row.RequestCount,
		})
	}
	return usages, nil
}

// Close 關閉資料庫連線。
func (r *Repository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sqlDB == nil {
		return
	}
	_ = r.sqlDB.Close()
	r.sqlDB = nil
	r.db = nil
}

func (r *Repository) getDB() (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return r.db, nil
	}
	if r.cfg == nil {
		return nil, errors.New("database config is nil")
	}
	if !r.cfg.Database.Enabled {
		return nil, ErrDisabled
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	db, err := gorm.Open(postgres.Open(r.cfg.Database.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}

	if err := ensureUsageSchema(db); err != nil {
		return nil, fmt.Errorf("prepare usage db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get usage db handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(r.cfg.Database.MinPool)
	sqlDB.SetMaxOpenConns(r.cfg.Database.MaxPool)

	if r.logger != nil {
		r.logger.Info("usage_db_connected", "host", r.cfg.Database.Host, "name", r.cfg.Database.Name)
	}

	r.db = db
	r.sqlDB = sqlDB
	return db, nil
}

func ensureUsageSchema(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}

	if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS token_usage (
				id BIGSERIAL PRIMARY KEY,
				usage_date DATE NOT NULL,
				input_tokens BIGINT NOT NULL DEFAULT 0,
				output_tokens BIGINT NOT NULL DEFAULT 0,
				request_count BIGINT NOT NULL DEFAULT 0,
				version BIGINT NOT NULL DEFAULT 0
			)
		`).Error; err != nil {
		return fmt.Errorf("create token_usage table: %w", err)
	}

	if err := db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_token_usage_usage_date
			ON token_usage (usage_date)
		`).Error; err != nil {
		return fmt.Errorf("create token_usage usage_date unique index: %w", err)
	}

	return nil
}

func todayDate() time.Time {
	now := time.Now().In(time.Local)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
