package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/auth"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/domain"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/logging"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/query"
	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/service"
)

const dateLayout = "2006-01-02"

type expenseService interface {
	CreateExpense(ctx context.Context, userID uuid.UUID, in service.CreateExpenseInput) (*domain.Expense, error)
	GetExpense(ctx context.Context, id, userID uuid.UUID) (*domain.Expense, error)
	ListExpenses(ctx context.Context, userID uuid.UUID, d query.Descriptor) ([]domain.Expense, error)
	FilterExpenses(ctx context.Context, userID uuid.UUID, category, month, year string) ([]domain.Expense, error)
	UserLedger(ctx context.Context, targetUserID uuid.UUID) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, id, userID uuid.UUID, p domain.ExpensePatch) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id, userID uuid.UUID) error
	DeleteAllExpenses(ctx context.Context, userID uuid.UUID) (int64, error)
	Summary(ctx context.Context, userID uuid.UUID) ([]domain.KindTotal, error)
	Statistics(ctx context.Context, userID uuid.UUID) (*domain.Statistics, error)
}

type ExpenseHandler struct {
	expenses expenseService
}

func NewExpenseHandler(expenses expenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

type expenseDTO struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toExpenseDTO(e *domain.Expense) expenseDTO {
	return expenseDTO{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		Type:        string(e.Kind),
		Date:        e.OccurredOn.Format(dateLayout),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toExpenseDTOs(expenses []domain.Expense) []expenseDTO {
	dtos := make([]expenseDTO, len(expenses))
	for i := range expenses {
		dtos[i] = toExpenseDTO(&expenses[i])
	}
	return dtos
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp, of
// which only the date part is kept.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

type createExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Type        string           `json:"type"`
	Date        string           `json:"date"`
}

func (r createExpenseRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Amount == nil {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	} else if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}

	if r.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}
	if r.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "required"})
	}

	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	} else if !domain.Kind(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be income or expense"})
	}

	if r.Date == "" {
		errs = append(errs, FieldError{Field: "date", Message: "required"})
	} else if _, ok := parseDate(r.Date); !ok {
		errs = append(errs, FieldError{Field: "date", Message: "must be a YYYY-MM-DD date"})
	}

	return errs
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	occurredOn, _ := parseDate(req.Date)
	e, err := h.expenses.CreateExpense(r.Context(), userID, service.CreateExpenseInput{
		Amount:      *req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Kind:        domain.Kind(req.Type),
		OccurredOn:  occurredOn,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("expense creation failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toExpenseDTO(e))
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, query.Unfiltered(query.SortDateDesc))
}

// Search matches the keyword case-insensitively against description or
// category.
func (h *ExpenseHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, query.Search(r.URL.Query().Get("keyword")))
}

// Sort lists the full ledger in the requested order; unknown sort keys fall
// back to newest-first.
func (h *ExpenseHandler) Sort(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, query.Unfiltered(query.ParseSort(r.URL.Query().Get("by"))))
}

func (h *ExpenseHandler) respondList(w http.ResponseWriter, r *http.Request, d query.Descriptor) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	expenses, err := h.expenses.ListExpenses(r.Context(), userID, d)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list expenses", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toExpenseDTOs(expenses))
}

// Filter narrows by exact category and/or a month, with the year defaulting
// to the current one. An invalid month is a 400, never a silent full scan.
func (h *ExpenseHandler) Filter(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	q := r.URL.Query()
	expenses, err := h.expenses.FilterExpenses(r.Context(), userID, q.Get("category"), q.Get("month"), q.Get("year"))
	if err != nil {
		logging.FromContext(r.Context()).Warn("expense filter failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toExpenseDTOs(expenses))
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	expenseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	e, err := h.expenses.GetExpense(r.Context(), expenseID, userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toExpenseDTO(e))
}

type updateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Type        *string          `json:"type"`
	Date        *string          `json:"date"`
}

func (r updateExpenseRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Amount != nil && !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.Description != nil && *r.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "must not be empty"})
	}
	if r.Category != nil && *r.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "must not be empty"})
	}
	if r.Type != nil && !domain.Kind(*r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be income or expense"})
	}
	if r.Date != nil {
		if _, ok := parseDate(*r.Date); !ok {
			errs = append(errs, FieldError{Field: "date", Message: "must be a YYYY-MM-DD date"})
		}
	}

	return errs
}

func (r updateExpenseRequest) toPatch() domain.ExpensePatch {
	p := domain.ExpensePatch{
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
	}
	if r.Type != nil {
		k := domain.Kind(*r.Type)
		p.Kind = &k
	}
	if r.Date != nil {
		d, _ := parseDate(*r.Date)
		p.OccurredOn = &d
	}
	return p
}

// Update applies a partial update: fields present in the body overwrite,
// omitted fields keep their stored value. An explicit value is never
// mistaken for an omission.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	expenseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	e, err := h.expenses.UpdateExpense(r.Context(), expenseID, userID, req.toPatch())
	if err != nil {
		logging.FromContext(r.Context()).Warn("expense update failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toExpenseDTO(e))
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	expenseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.expenses.DeleteExpense(r.Context(), expenseID, userID); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

func (h *ExpenseHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	count, err := h.expenses.DeleteAllExpenses(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to clear ledger", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]int64{"deleted": count})
}

type kindTotalDTO struct {
	Type        string          `json:"type"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type categoryTotalDTO struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type statisticsDTO struct {
	TotalByType     []kindTotalDTO     `json:"totalByType"`
	TotalByCategory []categoryTotalDTO `json:"totalByCategory"`
	TotalOverall    *decimal.Decimal   `json:"totalOverall"`
}

func toKindTotalDTOs(totals []domain.KindTotal) []kindTotalDTO {
	dtos := make([]kindTotalDTO, len(totals))
	for i, t := range totals {
		dtos[i] = kindTotalDTO{Type: string(t.Kind), TotalAmount: t.Total}
	}
	return dtos
}

// Summary reports the ledger-wide totals per kind. Consumers derive the net
// balance themselves from the income and expense entries.
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	totals, err := h.expenses.Summary(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to compute summary", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toKindTotalDTOs(totals))
}

func (h *ExpenseHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	stats, err := h.expenses.Statistics(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to compute statistics", "error", err)
		RespondDomainError(w, err)
		return
	}

	byCategory := make([]categoryTotalDTO, len(stats.ByCategory))
	for i, t := range stats.ByCategory {
		byCategory[i] = categoryTotalDTO{Category: t.Category, TotalAmount: t.Total}
	}

	RespondSuccess(w, http.StatusOK, statisticsDTO{
		TotalByType:     toKindTotalDTOs(stats.ByKind),
		TotalByCategory: byCategory,
		TotalOverall:    stats.GrandTotal,
	})
}

// UserLedger returns another user's full ledger. Routing wraps this in the
// admin-only middleware; it is not reachable with an ordinary token.
func (h *ExpenseHandler) UserLedger(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	expenses, err := h.expenses.UserLedger(r.Context(), targetID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("user ledger lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toExpenseDTOs(expenses))
}
