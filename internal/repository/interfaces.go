// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/beautyparlour/internal/model"
)

// AppointmentRepository は予約データの永続化インターフェース。
// 同一電話番号の予約が複数ある場合は、最も古いものを「最初の一致」とする。
type AppointmentRepository interface {
	// FindFirstByPhone は電話番号で最初の予約を取得する。見つからない場合はnilを返す。
	FindFirstByPhone(ctx context.Context, phone string) (*model.Appointment, error)

	// Create は予約を作成する。
	// 同一の(date, time, service)が既に存在する場合はmodel.ErrSlotTakenを返す。
	Create(ctx context.Context, appt *model.Appointment) error

	// Update はIDで指定した予約の全フィールドを上書きする。
	// 更新後の枠が他の予約と重複する場合はmodel.ErrSlotTakenを返し、行は変更されない。
	// 対象が存在しない場合はfalseを返す。
	Update(ctx context.Context, appt *model.Appointment) (bool, error)

	// DeleteByID は指定IDの予約を削除する。削除した場合はtrueを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)

	// DeleteFirstByPhone は電話番号で最初の予約を1文で検索・削除し、削除した予約を返す。
	// 見つからない場合はnilを返す。
	DeleteFirstByPhone(ctx context.Context, phone string) (*model.Appointment, error)
}
