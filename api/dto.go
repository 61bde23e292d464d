/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS ON THE WIRE:
  Amounts cross the wire as integer minor units (e.g. cents). The decimal
  representation stays internal; clients never see floats.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/finbook/ledger-engine/ledger"
	"github.com/finbook/ledger-engine/users"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// RegisterRequest is the request to create a user.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO represents a user in API responses. The password hash never leaves
// the server.
type UserDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SessionRequest is the request to authenticate.
type SessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionDTO is the response after authenticating.
type SessionDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// CreateOperationRequest is the request to record a deposit or withdrawal.
// The operation kind comes from the route, not the body.
type CreateOperationRequest struct {
	Amount      int64  `json:"amount"` // minor units, must be > 0
	Description string `json:"description"`
}

// StatementDTO represents one ledger entry.
type StatementDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// BalanceDTO is the get-balance response: the full history plus the
// derived balance.
type BalanceDTO struct {
	Statement      []StatementDTO `json:"statement"`
	Balance        int64          `json:"balance"`
	TotalDeposited int64          `json:"total_deposited"`
	TotalWithdrawn int64          `json:"total_withdrawn"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toUserDTO(u *users.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toStatementDTO(st ledger.Statement) StatementDTO {
	return StatementDTO{
		ID:          string(st.ID),
		UserID:      string(st.UserID),
		Type:        string(st.Type),
		Amount:      st.Amount.MinorUnits(),
		Description: st.Description,
		CreatedAt:   st.CreatedAt.Format(time.RFC3339),
	}
}

func toStatementDTOs(sts []ledger.Statement) []StatementDTO {
	dtos := make([]StatementDTO, len(sts))
	for i, st := range sts {
		dtos[i] = toStatementDTO(st)
	}
	return dtos
}
