package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/directory"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{Store: directory.NewStore(db)}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Get("/{employeeID}", h.handleGet)
		r.Get("/{employeeID}/chain", h.handleChain)
		r.With(middleware.RequireRole(directory.RoleHRExecutive, directory.RoleHRManager)).
			Post("/", h.handleCreate)
		r.With(middleware.RequireRole(directory.RoleHRExecutive, directory.RoleHRManager)).
			Put("/{employeeID}/manager", h.handleSetManager)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	employees, err := h.Store.ListEmployees(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, employee, reqID)
}

func (h *Handler) handleChain(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	chain, err := h.Store.ReportingChain(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "chain_failed", "failed to load reporting chain", reqID)
		return
	}
	api.Success(w, chain, reqID)
}

type createEmployeeRequest struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	Designation      string  `json:"designation"`
	ReportingManager string  `json:"reportingManager"`
	PhoneNumber      string  `json:"phoneNumber"`
	Location         string  `json:"location"`
	JoiningDate      string  `json:"joiningDate"`
	AnnualCTC        float64 `json:"annualCtc"`
	AnnualLeaves     int     `json:"annualLeaves"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("id", payload.ID, "employee id is required")
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("designation", payload.Designation, "designation is required")
	joining, _ := v.Date("joiningDate", payload.JoiningDate)
	if v.Reject(w, reqID) {
		return
	}

	emp := directory.Employee{
		ID:               payload.ID,
		FirstName:        payload.FirstName,
		LastName:         payload.LastName,
		Email:            payload.Email,
		Designation:      payload.Designation,
		ReportingManager: payload.ReportingManager,
		PhoneNumber:      payload.PhoneNumber,
		Location:         payload.Location,
		JoiningDate:      joining,
		AnnualCTC:        payload.AnnualCTC,
		AnnualLeaves:     payload.AnnualLeaves,
	}
	if err := h.Store.CreateEmployee(r.Context(), emp); err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalidDesignation):
			api.Fail(w, http.StatusBadRequest, "invalid_designation", "designation is required", reqID)
		case errors.Is(err, directory.ErrUnknownManager):
			api.Fail(w, http.StatusBadRequest, "unknown_manager", "reporting manager does not exist", reqID)
		case errors.Is(err, directory.ErrReportingCycle):
			api.Fail(w, http.StatusBadRequest, "reporting_cycle", "reporting chain must stay acyclic", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		}
		return
	}
	api.Created(w, map[string]string{"id": emp.ID}, reqID)
}

type setManagerRequest struct {
	ReportingManager string `json:"reportingManager"`
}

func (h *Handler) handleSetManager(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload setManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	err := h.Store.SetReportingManager(r.Context(), chi.URLParam(r, "employeeID"), payload.ReportingManager)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, directory.ErrUnknownManager):
		api.Fail(w, http.StatusBadRequest, "unknown_manager", "reporting manager does not exist", reqID)
	case errors.Is(err, directory.ErrReportingCycle):
		api.Fail(w, http.StatusBadRequest, "reporting_cycle", "reporting chain must stay acyclic", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "manager_update_failed", "failed to update reporting manager", reqID)
	default:
		api.Success(w, map[string]string{"id": chi.URLParam(r, "employeeID")}, reqID)
	}
}
