package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"
)

type LoanHandler struct {
	decisions credit.DecisionService
	loans     loan.LoanService
	logger    *slog.Logger
}

func NewLoanHandler(decisions credit.DecisionService, loans loan.LoanService, l *slog.Logger) *LoanHandler {
	if decisions == nil || loans == nil {
		panic("loan handler services cannot be nil")
	}
	return &LoanHandler{
		decisions: decisions,
		loans:     loans,
		logger:    l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getLoanIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "loanID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: loanID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid loanID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// CheckEligibility runs the credit decision pipeline without side effects.
//
// @Summary Check loan eligibility
// @Description Scores the customer's loan history, applies the interest-rate slab and the affordability check, and reports whether the requested loan would be approved. Nothing is persisted.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.EligibilityRequest true "Eligibility check request payload"
// @Success 200 {object} dto.EligibilityResponse "Decision for the requested loan"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/check-eligibility [post]
// @Security BearerAuth
func (h *LoanHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req dto.EligibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Eligibility request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	eval, err := h.decisions.Evaluate(r.Context(), req.ToEvaluationRequest())
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Eligibility checked",
		slog.Int64("customerID", eval.CustomerID), slog.Bool("approval", eval.Approved))
	respondJSON(w, http.StatusOK, dto.NewEligibilityResponse(eval))
}

// CreateLoan re-evaluates eligibility and persists the loan on approval.
//
// @Summary Create a loan
// @Description Re-runs the full eligibility evaluation under a per-customer lock and, when approved, books a new loan at the corrected interest rate. Rejections return 200 with loanApproved=false and a null loanId.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.EligibilityRequest true "Loan creation request payload"
// @Success 201 {object} dto.CreateLoanResponse "Loan successfully created"
// @Success 200 {object} dto.CreateLoanResponse "Loan rejected by the decision rules"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.EligibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Create loan request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	result, err := h.decisions.CreateLoan(r.Context(), req.ToEvaluationRequest())
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if result.Approved {
		status = http.StatusCreated
	}
	h.logger.InfoContext(r.Context(), "Create loan processed",
		slog.Int64("customerID", result.CustomerID), slog.Bool("approved", result.Approved))
	respondJSON(w, status, dto.NewCreateLoanResponse(result))
}

// GetLoan retrieves the details of a specific loan.
//
// @Summary Retrieve loan details
// @Description Retrieves a loan by its ID together with a summary of the owning customer.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanDetailResponse "Loan details successfully retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID format"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get loan ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	l, cust, err := h.loans.GetLoanDetail(r.Context(), loanID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan retrieved successfully", slog.Int64("loanID", loanID))
	respondJSON(w, http.StatusOK, dto.NewLoanDetailResponse(l, dto.NewCustomerSummaryResponse(cust)))
}
