package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
)

// ReviewAnalyticsRepo guarda el histórico de eventos de reviews en ClickHouse.
type ReviewAnalyticsRepo struct {
	db *sql.DB
}

func NewReviewAnalyticsRepo(addr string, dbName string) (*ReviewAnalyticsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &ReviewAnalyticsRepo{db: conn}, nil
}

// NewReviewAnalyticsRepoFromDB permite reutilizar una conexión ya abierta.
func NewReviewAnalyticsRepoFromDB(db *sql.DB) *ReviewAnalyticsRepo {
	return &ReviewAnalyticsRepo{db: db}
}

// LogReviewEvents inserta el lote en una sola transacción; ClickHouse lo envía como un único bloque.
func (r *ReviewAnalyticsRepo) LogReviewEvents(ctx context.Context, entries []bootcampDomain.ReviewLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO reviews_log (review_id, bootcamp_id, user_id, rating, event_type, event_time)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.ReviewID,
			e.BootcampID,
			e.UserID,
			uint8(e.Rating),
			e.EventType,
			e.OccurredAt,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to exec statement for review %s: %w", e.ReviewID, err)
		}
	}

	return tx.Commit()
}

// GetDailyTrend agrupa por día las reviews creadas o actualizadas y su valoración media.
func (r *ReviewAnalyticsRepo) GetDailyTrend(ctx context.Context, bootcampID uuid.UUID, start, end time.Time) ([]bootcampDomain.DailyRatingTrend, error) {
	query := `
		SELECT
			toStartOfDay(event_time) AS day,
			countIf(event_type != 'review.deleted') AS reviews,
			avgIf(rating, event_type != 'review.deleted') AS average_rating
		FROM reviews_log
		WHERE bootcamp_id = ? AND event_time BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, bootcampID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trends := []bootcampDomain.DailyRatingTrend{}
	for rows.Next() {
		var (
			t       bootcampDomain.DailyRatingTrend
			reviews uint64
			avg     sql.NullFloat64
		)
		if err := rows.Scan(&t.Day, &reviews, &avg); err != nil {
			return nil, err
		}
		t.Reviews = int(reviews)
		if avg.Valid {
			t.AverageRating = avg.Float64
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// InitSchema crea la tabla de log si no existe, particionada por mes.
func (r *ReviewAnalyticsRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS reviews_log (
			review_id   UUID,
			bootcamp_id UUID,
			user_id     UUID,
			rating      UInt8,
			event_type  String,
			event_time  DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(event_time)
		ORDER BY (bootcamp_id, event_time);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *ReviewAnalyticsRepo) Close() error {
	return r.db.Close()
}

var _ bootcampDomain.RatingAnalytics = (*ReviewAnalyticsRepo)(nil)
