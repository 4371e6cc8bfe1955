// Package appointment は予約管理のドメインロジックを提供する。
// 入力検証、予約枠の重複判定、期限切れ予約の遅延削除、時刻表記の整形を担う。
package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hitoshi/beautyparlour/internal/metrics"
	"github.com/hitoshi/beautyparlour/internal/model"
	"github.com/hitoshi/beautyparlour/internal/repository"
	"github.com/hitoshi/beautyparlour/internal/security"
)

// CreateInput は予約作成の入力。日付と時刻はリクエストの文字列のまま受け取る。
type CreateInput struct {
	Name            string
	Email           string
	Phone           string
	Date            string
	Time            string
	Service         string
	SpecialRequests string
}

// UpdateInput は予約更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Name            *string
	Email           *string
	Phone           *string
	Date            *string
	Time            *string
	Service         *string
	SpecialRequests *string
}

// Conflict は予約枠がすでに埋まっていたことを表す。
// エラーではなく通常の結果として扱う。
type Conflict struct {
	Slot    model.Slot
	Message string
}

func newConflict(slot model.Slot) *Conflict {
	return &Conflict{
		Slot:    slot,
		Message: fmt.Sprintf("The slot for %s is already booked. Please select another time or service.", slot),
	}
}

// LookupResult は電話番号による予約照会の結果。
// Appointment.Timeは12時間表記に整形済み。
type LookupResult struct {
	Exists          bool
	Appointment     *model.Appointment
	PastAppointment bool
}

// ServiceConfig はServiceの動作設定。
type ServiceConfig struct {
	// Now は現在時刻を返す。nilの場合はtime.Now。
	Now func() time.Time
}

// Service は予約管理のサービス層。
type Service struct {
	repo     repository.AppointmentRepository
	markup   security.MarkupDetectorService
	metrics  metrics.MetricsCollector
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.AppointmentRepository,
	markup security.MarkupDetectorService,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	cfg ServiceConfig,
) *Service {
	now      := cfg.Now
	if now == nil {
		now = time.Now
	}
	if markup == nil {
		markup = security.NewMarkupDetector()
	}
	if collector == nil {
		collector = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		markup:   markup,
		metrics:  collector,
		logger:   logger,
		validate: newValidator(),
		now:      now,
	}
}

// IsExpired は予約の開始時刻がnowより厳密に前かを判定する。副作用はない。
func IsExpired(a *model.Appointment, now time.Time) bool {
	return a.StartsAt().Before(now)
}

// Lookup は電話番号で最初の予約を照会する。
// 期限切れの予約は削除したうえでPastAppointment=trueとして返すため、
// 同じ電話番号での次回の照会はExists=falseになる。
func (s *Service) Lookup(ctx context.Context, phone string) (*LookupResult, error) {
	appt, err := s.repo.FindFirstByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}
	if appt == nil {
		return &LookupResult{Exists: false}, nil
	}

	past := IsExpired(appt, s.now())
	if past {
		if err := s.expire(ctx, appt); err != nil {
			return nil, err
		}
	}

	view := *appt
	view.Time = FormatTimeToAMPM(appt.Time)

	return &LookupResult{
		Exists:          true,
		Appointment:     &view,
		PastAppointment: past,
	}, nil
}

// expire は期限切れと判定された予約を削除する。
func (s *Service) expire(ctx context.Context, appt *model.Appointment) error {
	deleted, err := s.repo.DeleteByID(ctx, appt.ID)
	if err != nil {
		return fmt.Errorf("期限切れ予約の削除に失敗しました: %w", err)
	}
	if deleted {
		s.metrics.RecordAppointmentsExpired(metrics.ExpiredByLookup, 1)
		s.logger.Info("expired appointment removed on lookup",
			slog.String("appointment_id", appt.ID),
			slog.Time("starts_at", appt.StartsAt()),
		)
	}
	return nil
}

// Create は予約を作成する。
// 検証に失敗した場合は*model.APIErrorを返す。
// 同じ枠がすでに予約済みの場合はエラーではなくConflictを返し、何も保存しない。
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Appointment, *Conflict, error) {
	in.SpecialRequests = strings.TrimSpace(in.SpecialRequests)

	if err := s.validateCreate(in); err != nil {
		return nil, nil, err
	}

	// validateCreateで検証済み
	date, _ := model.ParseDate(in.Date)
	now      := s.now().UTC()

	s.flagMarkup("name", in.Name)
	s.flagMarkup("specialRequests", in.SpecialRequests)

	appt := &model.Appointment{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Email:           strings.TrimSpace(in.Email),
		Phone:           in.Phone,
		Date:            date,
		Time:            in.Time,
		Service:         model.Service(in.Service),
		SpecialRequests: in.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.metrics.RecordSlotConflict("create")
			return nil, newConflict(appt.Slot()), nil
		}
		return nil, nil, fmt.Errorf("予約の作成に失敗しました: %w", err)
	}

	s.metrics.RecordAppointmentCreated()
	return appt, nil, nil
}

// Update は電話番号で特定した予約を部分更新する。
// 指定されたフィールドのみ上書きし、それ以外は既存の値を維持する。
// 日付・時刻・施術のいずれかが変わり、他の予約の枠と重なる場合はConflictを返し、予約は変更しない。
func (s *Service) Update(ctx context.Context, phone string, in UpdateInput) (*model.Appointment, *Conflict, error) {
	if err := s.validateUpdate(in); err != nil {
		return nil, nil, err
	}

	existing, err := s.repo.FindFirstByPhone(ctx, phone)
	if err != nil {
		return nil, nil, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, nil, model.NewAppointmentNotFoundError()
	}

	merged := s.merge(existing, in)
	merged.UpdatedAt = s.now().UTC()

	ok, err := s.repo.Update(ctx, merged)
	if err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.metrics.RecordSlotConflict("update")
			return nil, newConflict(merged.Slot()), nil
		}
		return nil, nil, fmt.Errorf("予約の更新に失敗しました: %w", err)
	}
	if !ok {
		// 取得から更新までの間に削除された
		return nil, nil, model.NewAppointmentNotFoundError()
	}

	s.metrics.RecordAppointmentUpdated()
	return merged, nil, nil
}

// merge は既存の予約に更新入力を重ねた新しい予約を返す。existingは変更しない。
func (s *Service) merge(existing *model.Appointment, in UpdateInput) *model.Appointment {
	merged := *existing

	if in.Name != nil {
		merged.Name = *in.Name
		s.flagMarkup("name", merged.Name)
	}
	if in.Email != nil {
		merged.Email = strings.TrimSpace(*in.Email)
	}
	// 空の電話番号では二度と照会できなくなるため無視する
	if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
		merged.Phone = *in.Phone
	}
	if in.SpecialRequests != nil {
		merged.SpecialRequests = strings.TrimSpace(*in.SpecialRequests)
		s.flagMarkup("specialRequests", merged.SpecialRequests)
	}
	if v, ok := supplied(in.Date); ok {
		// validateUpdateで検証済み
		merged.Date, _ = model.ParseDate(v)
	}
	if v, ok := supplied(in.Time); ok {
		merged.Time = v
	}
	if v, ok := supplied(in.Service); ok {
		merged.Service = model.Service(v)
	}

	return &merged
}

// flagMarkup は自由記述欄にマークアップが含まれる場合にログへ記録する。値は変更しない。
func (s *Service) flagMarkup(field, value string) {
	if s.markup.ContainsMarkup(value) {
		s.logger.Info("free text contains markup",
			slog.String("field", field),
		)
	}
}

// Delete は電話番号で最初の予約を削除し、削除した予約を返す。
func (s *Service) Delete(ctx context.Context, phone string) (*model.Appointment, error) {
	deleted, err := s.repo.DeleteFirstByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("予約の削除に失敗しました: %w", err)
	}
	if deleted == nil {
		return nil, model.NewAppointmentNotFoundError()
	}

	s.metrics.RecordAppointmentDeleted()
	return deleted, nil
}
