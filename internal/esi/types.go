package esi

//go:generate mockgen -package mocks -destination mocks/mock_client.go github.com/evemaps/pipecleaner/internal/esi Client

import "context"

// SystemID identifies a solar system on the EVE map.
type SystemID int32

// KillStats holds per-system kill counts for the last hour.
type KillStats struct {
	ShipKills int `json:"ship_kills"`
	PodKills  int `json:"pod_kills"`
	NPCKills  int `json:"npc_kills"`
}

// JumpStats holds per-system gate jump counts for the last hour.
type JumpStats struct {
	Jumps int `json:"ship_jumps"`
}

// SovStats holds the current sovereignty holder of a system.
// Zero-value fields mean the system is unclaimed (or NPC space).
type SovStats struct {
	AllianceID    int64 `json:"alliance_id"`
	CorporationID int64 `json:"corporation_id"`
	FactionID     int64 `json:"faction_id"`
}

// Client fetches per-system map activity from the EVE API.
// Each call returns a mapping for the requested systems only; systems with
// no recorded activity may be absent from the result. Any transport or
// decode problem is reported as an error, never as an empty map.
type Client interface {
	KillsBySystem(ctx context.Context, ids []SystemID) (map[SystemID]KillStats, error)
	JumpsBySystem(ctx context.Context, ids []SystemID) (map[SystemID]JumpStats, error)
	SovBySystem(ctx context.Context, ids []SystemID) (map[SystemID]SovStats, error)
}
