package appointment

import (
	"github.com/go-playground/validator/v10"
	"github.com/hitoshi/beautyparlour/internal/model"
)

// requiredFields は作成時の必須項目。メールと要望は任意。
type requiredFields struct {
	Name    string `validate:"required"`
	Phone   string `validate:"required"`
	Time    string `validate:"required"`
	Service string `validate:"required"`
}

// newValidator はhhmmタグとserviceタグを登録したvalidatorを返す。
func newValidator() *validator.Validate {
	v := validator.New()
	// 登録に失敗するのはタグ名が空の場合だけ
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return model.ValidTimeOfDay(fl.Field().String())
	})
	_ = v.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		return model.Service(fl.Field().String()).Valid()
	})
	return v
}

// checkTime は時刻がHH:mm形式かを検証する。
func (s *Service) checkTime(t string) error {
	if err := s.validate.Var(t, "hhmm"); err != nil {
		return model.NewInvalidTimeError()
	}
	return nil
}

// checkService は施術メニューが許可値かを検証する。
func (s *Service) checkService(service string) error {
	if err := s.validate.Var(service, "service"); err != nil {
		return model.NewInvalidServiceError(service)
	}
	return nil
}

// validateCreate は作成リクエストを検証する。
// 時刻形式、日付、必須項目、施術メニューの順に判定し、最初の失敗を返す。
func (s *Service) validateCreate(in CreateInput) error {
	if err := s.checkTime(in.Time); err != nil {
		return err
	}

	if _, err := model.ParseDate(in.Date); err != nil {
		return model.NewInvalidDateError()
	}

	if err := s.validate.Struct(requiredFields{
		Name:    in.Name,
		Phone:   in.Phone,
		Time:    in.Time,
		Service: in.Service,
	}); err != nil {
		return model.NewMissingFieldsError()
	}

	return s.checkService(in.Service)
}

// validateUpdate は更新リクエストのうち指定されたフィールドだけを検証する。
func (s *Service) validateUpdate(in UpdateInput) error {
	if v, ok := supplied(in.Date); ok {
		if _, err := model.ParseDate(v); err != nil {
			return model.NewInvalidDateError()
		}
	}
	if v, ok := supplied(in.Time); ok {
		if err := s.checkTime(v); err != nil {
			return err
		}
	}
	if v, ok := supplied(in.Service); ok {
		if err := s.checkService(v); err != nil {
			return err
		}
	}
	return nil
}

// supplied は空でない値が指定されたかを返す。
// 日付・時刻・施術は空文字列を未指定として扱う。
func supplied(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}
