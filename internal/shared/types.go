package shared

import "github.com/google/uuid"

// Asynq task types
const (
	TypeProcessAssetVariants = "asset:process_variants"
	TypeDeleteAssetObjects   = "asset:delete_objects"
	TypeSweepOrphanAssets    = "asset:sweep_orphans"
	TypeCleanupStaleDrafts   = "draft:cleanup_stale"
)

// Asynq queues, highest priority first
const (
	QueueAssets      = "assets"
	QueueMaintenance = "maintenance"
)

// Gin context keys set by the auth middleware
const (
	CtxStaffID = "staff_id"
	CtxRole    = "role"
	CtxEmail   = "email"
)

// Staff roles
const (
	RoleBudtender = "budtender"
	RoleManager   = "manager"
)

// Actor is the authenticated caller a service authorises against
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsManager() bool { return a.Role == RoleManager }

// CanModify reports whether the actor may change a record owned by ownerID
func (a Actor) CanModify(ownerID uuid.UUID) bool {
	return a.IsManager() || a.ID == ownerID
}
