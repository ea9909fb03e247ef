package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Compile-time interface compliance check.
var _ Client = (*HTTPClient)(nil)

// HTTPClient is a stateless fetcher that retrieves map activity from the
// EVE Swagger Interface (ESI).
type HTTPClient struct {
	config     *Config
	logger     logrus.FieldLogger
	httpClient *http.Client
}

// NewHTTPClient creates a new ESI client.
func NewHTTPClient(cfg *Config, logger logrus.FieldLogger) (*HTTPClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &HTTPClient{
		config:     cfg,
		logger:     logger.WithField("component", "esi"),
		httpClient: cfg.HTTPClient(),
	}, nil
}

// systemKillsEntry mirrors one element of GET /universe/system_kills/.
type systemKillsEntry struct {
	SystemID  SystemID `json:"system_id"`
	ShipKills int      `json:"ship_kills"`
	PodKills  int      `json:"pod_kills"`
	NPCKills  int      `json:"npc_kills"`
}

// systemJumpsEntry mirrors one element of GET /universe/system_jumps/.
type systemJumpsEntry struct {
	SystemID SystemID `json:"system_id"`
	Jumps    int      `json:"ship_jumps"`
}

// sovMapEntry mirrors one element of GET /sovereignty/map/.
type sovMapEntry struct {
	SystemID      SystemID `json:"system_id"`
	AllianceID    int64    `json:"alliance_id"`
	CorporationID int64    `json:"corporation_id"`
	FactionID     int64    `json:"faction_id"`
}

// KillsBySystem fetches last-hour kill counts for the given systems.
func (c *HTTPClient) KillsBySystem(
	ctx context.Context,
	ids []SystemID,
) (map[SystemID]KillStats, error) {
	var entries []systemKillsEntry
	if err := c.getJSON(ctx, "/universe/system_kills/", &entries); err != nil {
		return nil, fmt.Errorf("fetch system kills: %w", err)
	}

	wanted := idSet(ids)
	result := make(map[SystemID]KillStats, len(ids))

	for _, e := range entries {
		if !wanted[e.SystemID] {
			continue
		}

		result[e.SystemID] = KillStats{
			ShipKills: e.ShipKills,
			PodKills:  e.PodKills,
			NPCKills:  e.NPCKills,
		}
	}

	c.logger.WithFields(logrus.Fields{
		"requested": len(ids),
		"reported":  len(result),
	}).Debug("Fetched system kills")

	return result, nil
}

// JumpsBySystem fetches last-hour gate jump counts for the given systems.
func (c *HTTPClient) JumpsBySystem(
	ctx context.Context,
	ids []SystemID,
) (map[SystemID]JumpStats, error) {
	var entries []systemJumpsEntry
	if err := c.getJSON(ctx, "/universe/system_jumps/", &entries); err != nil {
		return nil, fmt.Errorf("fetch system jumps: %w", err)
	}

	wanted := idSet(ids)
	result := make(map[SystemID]JumpStats, len(ids))

	for _, e := range entries {
		if !wanted[e.SystemID] {
			continue
		}

		result[e.SystemID] = JumpStats{Jumps: e.Jumps}
	}

	c.logger.WithFields(logrus.Fields{
		"requested": len(ids),
		"reported":  len(result),
	}).Debug("Fetched system jumps")

	return result, nil
}

// SovBySystem fetches current sovereignty holders for the given systems.
func (c *HTTPClient) SovBySystem(
	ctx context.Context,
	ids []SystemID,
) (map[SystemID]SovStats, error) {
	var entries []sovMapEntry
	if err := c.getJSON(ctx, "/sovereignty/map/", &entries); err != nil {
		return nil, fmt.Errorf("fetch sovereignty map: %w", err)
	}

	wanted := idSet(ids)
	result := make(map[SystemID]SovStats, len(ids))

	for _, e := range entries {
		if !wanted[e.SystemID] {
			continue
		}

		result[e.SystemID] = SovStats{
			AllianceID:    e.AllianceID,
			CorporationID: e.CorporationID,
			FactionID:     e.FactionID,
		}
	}

	c.logger.WithFields(logrus.Fields{
		"requested": len(ids),
		"reported":  len(result),
	}).Debug("Fetched sovereignty map")

	return result, nil
}

// getJSON performs a GET against an ESI path and decodes the JSON body.
func (c *HTTPClient) getJSON(ctx context.Context, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.config.BaseURL+path, http.NoBody,
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	return nil
}

func idSet(ids []SystemID) map[SystemID]bool {
	set := make(map[SystemID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set
}
