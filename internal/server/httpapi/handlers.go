package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ysemenov/coinkeeper/internal/common"
	"github.com/ysemenov/coinkeeper/internal/logging"
	"github.com/ysemenov/coinkeeper/internal/server/models"
	recordsrepo "github.com/ysemenov/coinkeeper/internal/server/repositories/records"
	"github.com/ysemenov/coinkeeper/internal/server/services"
)

// UserService is the authentication surface the handlers need.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// RecordService is the record CRUD surface the handlers need.
type RecordService interface {
	Create(ctx context.Context, userID string, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, userID string, rec *models.Record) error
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (*models.Record, error)
	List(ctx context.Context, userID string, f recordsrepo.Filter) ([]*models.Record, error)
}

// Handlers holds the services behind the JSON endpoints.
type Handlers struct {
	users   UserService
	records RecordService
	log     logging.Logger
}

func NewHandlers(users UserService, records RecordService, log logging.Logger) *Handlers {
	return &Handlers{users: users, records: records, log: log}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// recordPayload is the JSON shape of a record on the wire. Legacy clients
// wrote the category under "type" or "investmentType" and the secondary
// amount under "repayment" or "currentValue"; those aliases are accepted on
// input and reconciled in toModel.
type recordPayload struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title,omitempty"`
	Category       string    `json:"category,omitempty"`
	Type           string    `json:"type,omitempty"`
	InvestmentType string    `json:"investmentType,omitempty"`
	Amount         string    `json:"amount"`
	Secondary      string    `json:"secondaryAmount,omitempty"`
	Repayment      string    `json:"repayment,omitempty"`
	CurrentValue   string    `json:"currentValue,omitempty"`
	Date           string    `json:"date,omitempty"`
	Period         string    `json:"period,omitempty"`
	LoanType       string    `json:"loanType,omitempty"`
	Contact        string    `json:"contact,omitempty"`
	DueDate        string    `json:"dueDate,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (p recordPayload) toModel() *models.Record {
	rec := &models.Record{
		ID:        p.ID,
		Kind:      p.Kind,
		Title:     p.Title,
		Category:  p.Category,
		Amount:    p.Amount,
		Date:      p.Date,
		Period:    p.Period,
		LoanType:  p.LoanType,
		Contact:   p.Contact,
		DueDate:   p.DueDate,
		CreatedAt: p.CreatedAt,
	}
	if rec.Category == "" {
		rec.Category = p.Type
	}
	if rec.Category == "" {
		rec.Category = p.InvestmentType
	}
	for _, raw := range []string{p.Secondary, p.Repayment, p.CurrentValue} {
		if raw != "" {
			s := raw
			rec.Secondary = &s
			break
		}
	}
	return rec
}

func fromModel(rec *models.Record) recordPayload {
	p := recordPayload{
		ID:        rec.ID,
		Kind:      rec.Kind,
		Title:     rec.Title,
		Category:  rec.Category,
		Amount:    rec.Amount,
		Date:      rec.Date,
		Period:    rec.Period,
		LoanType:  rec.LoanType,
		Contact:   rec.Contact,
		DueDate:   rec.DueDate,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Secondary != nil {
		p.Secondary = *rec.Secondary
	}
	return p
}

// writeServiceError maps service-layer sentinel errors to HTTP statuses.
func (h *Handlers) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrLoginAlreadyExists):
		writeError(w, http.StatusConflict, "username already taken")
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrAmountNotPositive),
		errors.Is(err, common.ErrNegativeSecondary),
		errors.Is(err, common.ErrUnknownRecordKind):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.Error(ctx, "internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := h.users.Register(r.Context(), req.Username, req.Password); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handlers) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handlers) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleRecords(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		f := recordsrepo.Filter{
			Kind:     q.Get("kind"),
			Category: q.Get("category"),
			Period:   q.Get("period"),
			Contact:  q.Get("contact"),
		}
		recs, err := h.records.List(r.Context(), userID, f)
		if err != nil {
			h.writeServiceError(r.Context(), w, err)
			return
		}
		out := make([]recordPayload, 0, len(recs))
		for _, rec := range recs {
			out = append(out, fromModel(rec))
		}
		respondJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var p recordPayload
		if !decodeJSON(w, r, &p) {
			return
		}
		created, err := h.records.Create(r.Context(), userID, p.toModel())
		if err != nil {
			h.writeServiceError(r.Context(), w, err)
			return
		}
		respondJSON(w, http.StatusCreated, fromModel(created))

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handlers) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	id := strings.TrimPrefix(r.URL.Path, "/api/records/")
	id = strings.Trim(id, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "record ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := h.records.Get(r.Context(), userID, id)
		if err != nil {
			h.writeServiceError(r.Context(), w, err)
			return
		}
		respondJSON(w, http.StatusOK, fromModel(rec))

	case http.MethodPut:
		var p recordPayload
		if !decodeJSON(w, r, &p) {
			return
		}
		rec := p.toModel()
		rec.ID = id
		if err := h.records.Update(r.Context(), userID, rec); err != nil {
			h.writeServiceError(r.Context(), w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	case http.MethodDelete:
		if err := h.records.Delete(r.Context(), userID, id); err != nil {
			h.writeServiceError(r.Context(), w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
