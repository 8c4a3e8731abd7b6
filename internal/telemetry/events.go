package telemetry

import (
	"errors"

	"github.com/josephgoksu/veritas/internal/api"
)

// Event names.
const (
	EventCommandExecuted = "command_executed"
	EventLaneCompleted   = "lane_completed"
	EventHistoryCleared  = "history_cleared"
)

// Lane names used in lane events.
const (
	LaneAnalyze = "analyze"
	LaneScrape  = "scrape"
)

// TrackCommand records that a command ran.
func TrackCommand(c Client, command string) {
	c.Track(EventCommandExecuted, Properties{"command": command})
}

// TrackLane records how a lane finished. Only the outcome class and HTTP
// status are sent.
func TrackLane(c Client, lane string, err error) {
	c.Track(EventLaneCompleted, LaneProperties(lane, err))
}

// LaneProperties classifies a lane outcome.
func LaneProperties(lane string, err error) Properties {
	props := Properties{"lane": lane, "outcome": "success"}
	if err == nil {
		return props
	}

	props["outcome"] = "error"
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status != 0 {
			props["outcome"] = "backend_error"
			props["status"] = apiErr.Status
		} else {
			props["outcome"] = "unreachable"
		}
	}
	return props
}
