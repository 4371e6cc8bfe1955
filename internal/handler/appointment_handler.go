package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/beautyparlour/internal/appointment"
	"github.com/hitoshi/beautyparlour/internal/model"
)

// AppointmentServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
// *appointment.Serviceがそのまま満たす。
type AppointmentServiceInterface interface {
	// Lookup は電話番号で予約を照会する。期限切れの予約は削除される。
	Lookup(ctx context.Context, phone string) (*appointment.LookupResult, error)
	// Create は予約を作成する。枠が埋まっている場合はConflictを返す。
	Create(ctx context.Context, in appointment.CreateInput) (*model.Appointment, *appointment.Conflict, error)
	// Update は電話番号で特定した予約を部分更新する。
	Update(ctx context.Context, phone string, in appointment.UpdateInput) (*model.Appointment, *appointment.Conflict, error)
	// Delete は電話番号で特定した予約を削除する。
	Delete(ctx context.Context, phone string) (*model.Appointment, error)
}

// AppointmentHandler は予約管理のHTTPハンドラー。
type AppointmentHandler struct {
	service AppointmentServiceInterface
}

// NewAppointmentHandler はAppointmentHandlerを生成する。
func NewAppointmentHandler(service AppointmentServiceInterface) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// createAppointmentRequest は予約作成リクエストのボディ。
type createAppointmentRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Service         string `json:"service"`
	SpecialRequests string `json:"specialRequests"`
}

// updateAppointmentRequest は予約更新リクエストのボディ。省略したフィールドは変更しない。
type updateAppointmentRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	Service         *string `json:"service"`
	SpecialRequests *string `json:"specialRequests"`
}

// lookupResponse は予約照会のAPIレスポンス。
// 予約が存在しない場合はexistsのみを返す。
type lookupResponse struct {
	Exists          bool               `json:"exists"`
	Appointment     *model.Appointment `json:"appointment,omitempty"`
	PastAppointment *bool              `json:"pastAppointment,omitempty"`
}

// conflictResponse は予約枠の重複時のAPIレスポンス。ステータスは200。
type conflictResponse struct {
	Message string `json:"message"`
}

// GetAppointment は電話番号で予約を照会する。
// GET /appointments/{phone}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	result, err := h.service.Lookup(r.Context(), phone)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := lookupResponse{Exists: result.Exists}
	if result.Exists {
		past := result.PastAppointment
		resp.Appointment = result.Appointment
		resp.PastAppointment = &past
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateAppointment は予約を作成する。
// POST /appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	appt, conflict, err := h.service.Create(r.Context(), appointment.CreateInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Date:            req.Date,
		Time:            req.Time,
		Service:         req.Service,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if conflict != nil {
		writeJSON(w, http.StatusOK, conflictResponse{Message: conflict.Message})
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

// UpdateAppointment は電話番号で特定した予約を部分更新する。
// PUT /appointments/{phone}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	var req updateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	appt, conflict, err := h.service.Update(r.Context(), phone, appointment.UpdateInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Date:            req.Date,
		Time:            req.Time,
		Service:         req.Service,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if conflict != nil {
		writeJSON(w, http.StatusOK, conflictResponse{Message: conflict.Message})
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// DeleteAppointment は電話番号で特定した予約を削除し、削除した予約を返す。
// DELETE /appointments/{phone}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	appt, err := h.service.Delete(r.Context(), phone)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
