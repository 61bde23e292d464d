/*
handlers.go - HTTP API handlers for the statement ledger

PURPOSE:
  Exposes the ledger via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Users:
    POST   /api/v1/users                     Register
    POST   /api/v1/sessions                  Authenticate, returns bearer token

  Statements (require Authorization: Bearer <token>):
    GET    /api/v1/statements/balance        Balance plus full history
    POST   /api/v1/statements/deposit        Record a deposit
    POST   /api/v1/statements/withdraw       Record a withdrawal
    GET    /api/v1/statements/{statement_id} Get one operation

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (ledger service, users service)
  4. Serialize response
  5. Map errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, insufficient funds
  - 401: Missing/invalid token, bad credentials
  - 404: Unknown user or statement
  - 409: Duplicate email on registration
  - 500: Internal errors
  Each business error kind carries a stable machine code so callers can
  distinguish them without parsing messages.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbook/ledger-engine/ledger"
	"github.com/finbook/ledger-engine/users"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger *ledger.Service
	Users  *users.Service
}

// NewHandler creates a new handler over the given services.
func NewHandler(ledgerSvc *ledger.Service, userSvc *users.Service) *Handler {
	return &Handler{Ledger: ledgerSvc, Users: userSvc}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// Register creates a new user account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required", "bad_request")
		return
	}

	u, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			writeError(w, http.StatusConflict, err.Error(), "email_taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register user", "internal")
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(u))
}

// CreateSession authenticates a user and returns a bearer token.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	u, token, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrIncorrectCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error(), "incorrect_credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate", "internal")
		return
	}

	writeJSON(w, http.StatusOK, SessionDTO{User: toUserDTO(u), Token: token})
}

// =============================================================================
// STATEMENT HANDLERS
// =============================================================================

// GetBalance returns the derived balance plus the full operation history.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(userIDFrom(r.Context()))

	bs, err := h.Ledger.GetBalance(r.Context(), userID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{
		Statement:      toStatementDTOs(bs.Statements),
		Balance:        bs.Balance.MinorUnits(),
		TotalDeposited: bs.Summary.TotalDeposited.MinorUnits(),
		TotalWithdrawn: bs.Summary.TotalWithdrawn.MinorUnits(),
	})
}

// Deposit records a deposit operation.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.createOperation(w, r, ledger.OpDeposit)
}

// Withdraw records a withdrawal operation.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.createOperation(w, r, ledger.OpWithdraw)
}

func (h *Handler) createOperation(w http.ResponseWriter, r *http.Request, opType ledger.OperationType) {
	var req CreateOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	st, err := h.Ledger.CreateOperation(r.Context(), ledger.CreateOperationInput{
		UserID:      ledger.UserID(userIDFrom(r.Context())),
		Type:        opType,
		Amount:      ledger.NewAmount(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStatementDTO(*st))
}

// GetOperation returns one statement by id, scoped to the authenticated user.
func (h *Handler) GetOperation(w http.ResponseWriter, r *http.Request) {
	userID := ledger.UserID(userIDFrom(r.Context()))
	statementID := ledger.StatementID(chi.URLParam(r, "statement_id"))

	st, err := h.Ledger.GetOperation(r.Context(), userID, statementID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatementDTO(*st))
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// writeLedgerError maps the ledger error taxonomy to HTTP statuses.
// Infrastructure errors fall through to 500 unmapped.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "user_not_found")
	case errors.Is(err, ledger.ErrStatementNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "statement_not_found")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, err.Error(), "insufficient_funds")
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidOperationType):
		writeError(w, http.StatusBadRequest, err.Error(), "bad_request")
	default:
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
