package pick

import (
	"github.com/google/uuid"
)

// ListFilter narrows GET /picks. Nil fields are not filtered on.
type ListFilter struct {
	StaffID    *uuid.UUID
	CategoryID *uuid.UUID
	IsActive   *bool
	Page       int
	Limit      int
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

type SetStatusRequest struct {
	Status Status `json:"status"`
}
