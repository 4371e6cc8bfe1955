package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/beautyparlour/internal/model"
	"github.com/lib/pq"
)

// slotConstraint は(date, time, service)のユニーク制約名。マイグレーションと一致させる。
const slotConstraint = "appointments_slot_key"

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = "23505"

const appointmentColumns = `id, name, email, phone, date, time, service,
	special_requests, created_at, updated_at`

// PostgresAppointmentRepo はPostgreSQLを使用した予約リポジトリ。
type PostgresAppointmentRepo struct {
	db *sql.DB
}

// NewPostgresAppointmentRepo はPostgresAppointmentRepoを生成する。
func NewPostgresAppointmentRepo(db *sql.DB) *PostgresAppointmentRepo {
	return &PostgresAppointmentRepo{db: db}
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(s rowScanner) (*model.Appointment, error) {
	a := &model.Appointment{}
	var service string
	if err := s.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.Date, &a.Time, &service,
		&a.SpecialRequests, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Date = model.DateOnly(a.Date)
	a.Service = model.Service(service)
	return a, nil
}

// FindFirstByPhone は電話番号で最初の予約を取得する。見つからない場合はnilを返す。
func (r *PostgresAppointmentRepo) FindFirstByPhone(ctx context.Context, phone string) (*model.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE phone = $1
		 ORDER BY created_at ASC, id ASC
		 LIMIT 1`,
		phone,
	)

	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("電話番号による予約の検索に失敗しました: %w", err)
	}
	return a, nil
}

// Create は予約を作成する。
func (r *PostgresAppointmentRepo) Create(ctx context.Context, appt *model.Appointment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (id, name, email, phone, date, time, service,
		                           special_requests, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		appt.ID, appt.Name, appt.Email, appt.Phone, dateParam(appt.Date), appt.Time,
		string(appt.Service), appt.SpecialRequests, appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		if isSlotViolation(err) {
			return model.ErrSlotTaken
		}
		return fmt.Errorf("予約の作成に失敗しました: %w", err)
	}
	return nil
}

// Update はIDで指定した予約の全フィールドを上書きする。
func (r *PostgresAppointmentRepo) Update(ctx context.Context, appt *model.Appointment) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET
		    name = $2, email = $3, phone = $4, date = $5, time = $6,
		    service = $7, special_requests = $8, updated_at = $9
		 WHERE id = $1`,
		appt.ID, appt.Name, appt.Email, appt.Phone, dateParam(appt.Date), appt.Time,
		string(appt.Service), appt.SpecialRequests, appt.UpdatedAt,
	)
	if err != nil {
		if isSlotViolation(err) {
			return false, model.ErrSlotTaken
		}
		return false, fmt.Errorf("予約の更新に失敗しました: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("更新件数の取得に失敗しました: %w", err)
	}
	return n > 0, nil
}

// DeleteByID は指定IDの予約を削除する。
func (r *PostgresAppointmentRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("予約の削除に失敗しました: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return n > 0, nil
}

// DeleteFirstByPhone は電話番号で最初の予約を検索・削除する。
func (r *PostgresAppointmentRepo) DeleteFirstByPhone(ctx context.Context, phone string) (*model.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM appointments
		 WHERE id = (
		     SELECT id FROM appointments
		     WHERE phone = $1
		     ORDER BY created_at ASC, id ASC
		     LIMIT 1
		 )
		 RETURNING `+appointmentColumns,
		phone,
	)

	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("電話番号による予約の削除に失敗しました: %w", err)
	}
	return a, nil
}

// dateParam はDATE列に渡す暦日文字列を返す。
func dateParam(t time.Time) string {
	return model.DateOnly(t).Format("2006-01-02")
}

// isSlotViolation は予約枠のユニーク制約違反かどうかを判定する。
func isSlotViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == uniqueViolation && pqErr.Constraint == slotConstraint
}

// compile-time interface check
var _ AppointmentRepository = (*PostgresAppointmentRepo)(nil)
