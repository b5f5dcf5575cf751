package leavehandler

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
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(db *pgxpool.Pool, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{
		Service: leave.NewService(leave.NewStore(db), directory.NewStore(db)),
		Notify:  notify,
		Audit:   auditSvc,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/apply", h.handleApply)
		r.Get("/history/{employeeID}", h.handleHistory)
		r.Get("/balance/{employeeID}", h.handleBalance)
		r.With(middleware.RequireRole(directory.RoleManager, directory.RoleHRExecutive, directory.RoleHRManager)).
			Get("/pending", h.handlePending)
		r.With(middleware.RequireRole(directory.RoleManager, directory.RoleHRExecutive, directory.RoleHRManager)).
			Post("/{leaveID}/approve", h.handleApprove)
		r.With(middleware.RequireRole(directory.RoleManager, directory.RoleHRExecutive, directory.RoleHRManager)).
			Post("/{leaveID}/reject", h.handleReject)
	})
}

type applyRequest struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload applyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "leave type is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	app, err := h.Service.Apply(r.Context(), user.EmployeeID, leave.ApplyRequest{
		LeaveType: payload.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    payload.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrInvalidLeaveType):
			api.Fail(w, http.StatusBadRequest, "invalid_leave_type", "leave type must be casual, sick or earned", reqID)
		case errors.Is(err, leave.ErrInvalidDates):
			api.Fail(w, http.StatusBadRequest, "invalid_dates", "start date must be on or before end date", reqID)
		case errors.Is(err, leave.ErrNoApprover):
			api.Fail(w, http.StatusUnprocessableEntity, "no_approver", "no approver exists for this role", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_apply_failed", "failed to submit leave application", reqID)
		}
		return
	}

	if err := h.Notify.Notify(r.Context(), user.EmployeeID, notifications.TypeLeaveSubmitted,
		"Leave application submitted",
		fmt.Sprintf("Your %s leave from %s to %s is pending approval.",
			app.LeaveType, app.StartDate.Format("2006-01-02"), app.EndDate.Format("2006-01-02"))); err != nil {
		slog.Warn("leave submit notification failed", "err", err)
	}

	api.Created(w, app, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	history, err := h.Service.History(r.Context(), user.EmployeeID, user.Role, employeeID)
	if err != nil {
		failLeave(w, err, "leave_history_failed", "failed to load leave history", reqID)
		return
	}
	api.Success(w, history, reqID)
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	balance, err := h.Service.Balance(r.Context(), user.EmployeeID, user.Role, employeeID)
	if err != nil {
		failLeave(w, err, "leave_balance_failed", "failed to load leave balance", reqID)
		return
	}
	api.Success(w, balance, reqID)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	pending, err := h.Service.Pending(r.Context(), user.Role)
	if err != nil {
		failLeave(w, err, "leave_pending_failed", "failed to load pending applications", reqID)
		return
	}
	api.Success(w, pending, reqID)
}

type decisionRequest struct {
	Comments string `json:"comments"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.ActionApprove, notifications.TypeLeaveApproved, "Leave application approved")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.ActionReject, notifications.TypeLeaveRejected, "Leave application rejected")
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action, notifyType, notifyTitle string) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload decisionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	app, err := h.Service.Decide(r.Context(), user.EmployeeID, user.Role, leaveID, action, payload.Comments)
	if err != nil {
		failLeave(w, err, "leave_decision_failed", "failed to record leave decision", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.EmployeeID, "leave."+action, "leave_application", app.ID,
		reqID, nil, app); err != nil {
		slog.Warn("audit leave decision failed", "err", err)
	}
	if err := h.Notify.Notify(r.Context(), app.EmployeeID, notifyType, notifyTitle,
		fmt.Sprintf("Your %s leave from %s to %s was %s.",
			app.LeaveType, app.StartDate.Format("2006-01-02"), app.EndDate.Format("2006-01-02"), app.Status)); err != nil {
		slog.Warn("leave decision notification failed", "err", err)
	}

	api.Success(w, app, reqID)
}

func failLeave(w http.ResponseWriter, err error, code, message, reqID string) {
	switch {
	case errors.Is(err, leave.ErrNotFound), errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave application or employee not found", reqID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this employee", reqID)
	case errors.Is(err, leave.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "application is not pending", reqID)
	case errors.Is(err, leave.ErrInvalidAction):
		api.Fail(w, http.StatusBadRequest, "invalid_action", "action must be approve or reject", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
