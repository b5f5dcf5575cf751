package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jung-kurt/gofpdf"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/directory"
	"hrms/internal/domain/payroll"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service   *payroll.Service
	Directory *directory.Store
	Audit     *audit.Service
}

func NewHandler(db *pgxpool.Pool, auditSvc *audit.Service) *Handler {
	dirStore := directory.NewStore(db)
	return &Handler{
		Service:   payroll.NewService(payroll.NewStore(db), dirStore),
		Directory: dirStore,
		Audit:     auditSvc,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/payslip/{employeeID}", h.handlePayslip)
		r.Get("/history/{employeeID}", h.handleHistory)

		hrOnly := middleware.RequireRole(directory.RoleHRExecutive, directory.RoleHRManager)
		r.With(hrOnly).Post("/structure", h.handleGenerate)
		r.With(hrOnly).Put("/structure", h.handleSave)
		r.With(hrOnly).Post("/components", h.handleAddComponent)
		r.With(hrOnly).Put("/components", h.handleUpdateComponent)
		r.With(hrOnly).Delete("/components", h.handleDeleteComponent)
	})
}

type structureRequest struct {
	EmployeeID string              `json:"employeeId"`
	Month      string              `json:"month"`
	PayCycle   string              `json:"payCycle"`
	Earnings   []payroll.Component `json:"earnings"`
	Deductions []payroll.Component `json:"deductions"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload structureRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.EmployeeID == "" || payload.Month == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId and month are required", reqID)
		return
	}
	if payload.PayCycle == "" {
		payload.PayCycle = payroll.CycleMonthly
	}

	structure, err := h.Service.Generate(r.Context(), payload.EmployeeID, payload.Month, payload.PayCycle)
	if err != nil {
		failPayroll(w, err, "payroll_generate_failed", "failed to generate salary structure", reqID)
		return
	}
	h.audit(r, user.EmployeeID, "payroll.generate", structure)
	api.Created(w, structure, reqID)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload structureRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.PayCycle == "" {
		payload.PayCycle = payroll.CycleMonthly
	}

	structure, err := h.Service.Save(r.Context(), payload.EmployeeID, payload.Month, payload.PayCycle,
		payload.Earnings, payload.Deductions)
	if err != nil {
		failPayroll(w, err, "payroll_save_failed", "failed to save salary structure", reqID)
		return
	}
	h.audit(r, user.EmployeeID, "payroll.save", structure)
	api.Success(w, structure, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	month := r.URL.Query().Get("month")

	if !canViewPayroll(user.Role, user.EmployeeID, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this employee", reqID)
		return
	}

	structure, err := h.Service.Payslip(r.Context(), employeeID, month)
	if err != nil {
		failPayroll(w, err, "payslip_failed", "failed to load payslip", reqID)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		h.writePayslipPDF(w, r, structure, reqID)
		return
	}
	api.Success(w, structure, reqID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if !canViewPayroll(user.Role, user.EmployeeID, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed for this employee", reqID)
		return
	}

	history, err := h.Service.History(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_history_failed", "failed to load payroll history", reqID)
		return
	}
	api.Success(w, history, reqID)
}

type componentRequest struct {
	EmployeeID string            `json:"employeeId"`
	Month      string            `json:"month"`
	Side       string            `json:"side"`
	Component  payroll.Component `json:"component"`
}

func (h *Handler) handleAddComponent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload componentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	structure, err := h.Service.AddComponent(r.Context(), payload.EmployeeID, payload.Month, payload.Side, payload.Component)
	if err != nil {
		failPayroll(w, err, "component_add_failed", "failed to add component", reqID)
		return
	}
	h.audit(r, user.EmployeeID, "payroll.component.add", structure)
	api.Success(w, structure, reqID)
}

func (h *Handler) handleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload componentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	structure, err := h.Service.UpdateComponent(r.Context(), payload.EmployeeID, payload.Month, payload.Component)
	if err != nil {
		failPayroll(w, err, "component_update_failed", "failed to update component", reqID)
		return
	}
	h.audit(r, user.EmployeeID, "payroll.component.update", structure)
	api.Success(w, structure, reqID)
}

type deleteComponentRequest struct {
	EmployeeID string `json:"employeeId"`
	Month      string `json:"month"`
	Side       string `json:"side"`
	Name       string `json:"name"`
}

func (h *Handler) handleDeleteComponent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload deleteComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	structure, err := h.Service.DeleteComponent(r.Context(), payload.EmployeeID, payload.Month, payload.Side, payload.Name)
	if err != nil {
		failPayroll(w, err, "component_delete_failed", "failed to delete component", reqID)
		return
	}
	h.audit(r, user.EmployeeID, "payroll.component.delete", structure)
	api.Success(w, structure, reqID)
}

func (h *Handler) writePayslipPDF(w http.ResponseWriter, r *http.Request, structure payroll.Structure, reqID string) {
	employee, err := h.Directory.GetEmployee(r.Context(), structure.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payslip", reqID)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s (%s)", employee.FirstName, employee.LastName, employee.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Month: %s (%s)", structure.Month, structure.PayCycle))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Basic: %.2f  HRA: %.2f  Allowance: %.2f",
		structure.BasicSalary, structure.HRA, structure.Allowance))
	pdf.Ln(7)
	for _, component := range structure.Earnings {
		pdf.Cell(0, 8, fmt.Sprintf("Earning %s: %.2f", component.Name, component.Amount))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Provident Fund: %.2f%%  Professional Tax: %.2f",
		structure.PFPercentage, structure.ProfessionalTax))
	pdf.Ln(7)
	for _, component := range structure.Deductions {
		pdf.Cell(0, 8, fmt.Sprintf("Deduction %s: %.2f", component.Name, component.Amount))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Total Earnings: %.2f", structure.TotalEarnings))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total Deductions: %.2f", structure.TotalDeductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net Salary: %.2f", structure.NetSalary))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=payslip-%s-%s.pdf", structure.EmployeeID, structure.Month))
	if err := pdf.Output(w); err != nil {
		slog.Warn("payslip pdf write failed", "err", err)
	}
}

func (h *Handler) audit(r *http.Request, actorID, action string, structure payroll.Structure) {
	if err := h.Audit.Record(r.Context(), actorID, action, "payroll_row",
		structure.EmployeeID+"/"+structure.Month, middleware.GetRequestID(r.Context()), nil, structure); err != nil {
		slog.Warn("audit payroll failed", "err", err, "action", action)
	}
}

// canViewPayroll limits payslip reads to the employee themselves and HR.
func canViewPayroll(actor directory.Role, actorID, employeeID string) bool {
	if actorID == employeeID {
		return true
	}
	return actor == directory.RoleHRExecutive || actor == directory.RoleHRManager
}

func failPayroll(w http.ResponseWriter, err error, code, message, reqID string) {
	var immutable *payroll.ImmutableFieldError
	switch {
	case errors.Is(err, payroll.ErrNotFound), errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary structure or employee not found", reqID)
	case errors.Is(err, payroll.ErrInvalidPayCycle):
		api.Fail(w, http.StatusBadRequest, "invalid_pay_cycle", "pay cycle must be Monthly, Weekly or Biweekly", reqID)
	case errors.Is(err, payroll.ErrComponentNotFound):
		api.Fail(w, http.StatusNotFound, "component_not_found", "no component matches that name", reqID)
	case errors.Is(err, payroll.ErrInvalidSide):
		api.Fail(w, http.StatusBadRequest, "invalid_side", "side must be earnings or deductions", reqID)
	case errors.Is(err, payroll.ErrUnknownComponentType):
		api.Fail(w, http.StatusBadRequest, "invalid_component_type", "component type must be percentage or fixed", reqID)
	case errors.Is(err, payroll.ErrEmptyComponentName):
		api.Fail(w, http.StatusBadRequest, "invalid_component_name", "component name is required", reqID)
	case errors.As(err, &immutable):
		api.Fail(w, http.StatusBadRequest, "immutable_field", immutable.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
