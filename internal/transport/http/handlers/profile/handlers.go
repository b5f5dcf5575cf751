package profilehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/directory"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/profile"
	"hrms/internal/platform/crypto"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *profile.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(db *pgxpool.Pool, cryptoService *crypto.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{
		Service: profile.NewService(profile.NewStore(db, cryptoService)),
		Notify:  notify,
		Audit:   auditSvc,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/bank/{employeeID}", h.handleBankDetails)

		r.Route("/edit-requests", func(r chi.Router) {
			r.Post("/", h.handleSubmit)
			r.Get("/history/{employeeID}", h.handleHistory)

			reviewers := middleware.RequireRole(directory.RoleManager, directory.RoleHRExecutive, directory.RoleHRManager)
			r.With(reviewers).Get("/pending", h.handlePending)
			r.With(reviewers).Get("/summary", h.handleSummary)
			r.With(reviewers).Post("/{employeeID}/resolve", h.handleResolve)
		})
	})
}

type submitRequest struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
	Reason   string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	id, err := h.Service.Submit(r.Context(), user.EmployeeID, payload.Field, payload.OldValue, payload.NewValue, payload.Reason)
	if err != nil {
		failProfile(w, err, "edit_request_failed", "failed to submit edit request", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if user.EmployeeID != employeeID && !directory.IsApprover(user.Role) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this employee", reqID)
		return
	}

	history, err := h.Service.History(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "edit_history_failed", "failed to load edit requests", reqID)
		return
	}
	api.Success(w, history, reqID)
}

// handleBankDetails serves the decrypted bank record to the employee
// themselves or to an HR role.
func (h *Handler) handleBankDetails(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	hr := user.Role == directory.RoleHRExecutive || user.Role == directory.RoleHRManager
	if user.EmployeeID != employeeID && !hr {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this employee", reqID)
		return
	}

	details, err := h.Service.BankDetails(r.Context(), employeeID)
	if err != nil {
		failProfile(w, err, "bank_details_failed", "failed to load bank details", reqID)
		return
	}
	api.Success(w, details, reqID)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	pending, err := h.Service.ListPending(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "edit_pending_failed", "failed to load pending edit requests", reqID)
		return
	}
	api.Success(w, pending, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "edit_summary_failed", "failed to load edit request summary", reqID)
		return
	}
	api.Success(w, summary, reqID)
}

type resolveRequest struct {
	Status   string `json:"status"`
	Comments string `json:"comments"`
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	result, err := h.Service.Resolve(r.Context(), employeeID, payload.Status, payload.Comments, user.EmployeeID)
	if err != nil {
		failProfile(w, err, "edit_resolve_failed", "failed to resolve edit requests", reqID)
		return
	}

	if result.Applied > 0 {
		if err := h.Audit.Record(r.Context(), user.EmployeeID, "profile.resolve", "profile_edit_batch",
			employeeID, reqID, nil, result); err != nil {
			slog.Warn("audit profile resolve failed", "err", err)
		}
		notifyType := notifications.TypeProfileEditsApproved
		if result.Status == profile.StatusRejected {
			notifyType = notifications.TypeProfileEditsRejected
		}
		if err := h.Notify.Notify(r.Context(), employeeID, notifyType,
			"Profile edit requests resolved",
			fmt.Sprintf("%d profile edit request(s) were %s.", result.Applied, result.Status)); err != nil {
			slog.Warn("profile resolve notification failed", "err", err)
		}
	}

	api.Success(w, result, reqID)
}

func failProfile(w http.ResponseWriter, err error, code, message, reqID string) {
	var unknown *profile.UnknownFieldError
	var coercion *profile.CoercionError
	switch {
	case errors.As(err, &unknown):
		api.Fail(w, http.StatusBadRequest, "unknown_field", unknown.Error(), reqID)
	case errors.As(err, &coercion):
		api.Fail(w, http.StatusBadRequest, "coercion_failed", coercion.Error(), reqID)
	case errors.Is(err, profile.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be APPROVED or REJECTED", reqID)
	case errors.Is(err, directory.ErrUnknownManager):
		api.Fail(w, http.StatusBadRequest, "unknown_manager", "reporting manager does not exist", reqID)
	case errors.Is(err, directory.ErrReportingCycle):
		api.Fail(w, http.StatusBadRequest, "reporting_cycle", "reporting chain must stay acyclic", reqID)
	case errors.Is(err, profile.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "no record for this employee", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
