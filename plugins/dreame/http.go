package dreame

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vosola/dreamebridge/internal/server"
)

// statusView is the REST representation of the poll snapshot.
type statusView struct {
	Activity     string         `json:"activity"`
	BatteryLevel *int           `json:"battery_level,omitempty"`
	FanSpeed     string         `json:"fan_speed,omitempty"`
	Available    bool           `json:"available"`
	Attributes   map[string]any `json:"attributes"`
	LastError    string         `json:"last_error,omitempty"`
	UpdatedAt    string         `json:"updated_at,omitempty"`
}

type commandRequest struct {
	Command  string `json:"command"`
	FanSpeed string `json:"fan_speed,omitempty"`
	Method   string `json:"method,omitempty"`
	Params   []any  `json:"params,omitempty"`
}

// RegisterHTTP exposes the REST surface under /api/dreame.
func (p Plugin) RegisterHTTP(mux *http.ServeMux) {
	if p.service == nil {
		return
	}
	mux.HandleFunc("/api/dreame/status", p.handleStatus)
	mux.HandleFunc("/api/dreame/command", p.handleCommand)
}

func (p Plugin) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		server.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := p.service.Snapshot()
	view := statusView{
		Activity:   string(status.Activity()),
		Available:  status.Available,
		Attributes: status.Attributes(),
		LastError:  status.LastError,
	}
	if status.Seen {
		battery := status.Battery
		view.BatteryLevel = &battery
		view.FanSpeed = FanSpeedName(status.FanSpeed)
	}
	if !status.UpdatedAt.IsZero() {
		view.UpdatedAt = status.UpdatedAt.UTC().Format(time.RFC3339)
	}
	server.WriteJSON(w, http.StatusOK, view)
}

func (p Plugin) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		server.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Command == "" {
		server.WriteError(w, http.StatusBadRequest, "command is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()

	var err error
	switch req.Command {
	case "set_fan_speed":
		if req.FanSpeed == "" {
			server.WriteError(w, http.StatusBadRequest, "fan_speed is required")
			return
		}
		err = p.service.SetFanSpeed(ctx, req.FanSpeed)
	case "send_command":
		if req.Method == "" {
			server.WriteError(w, http.StatusBadRequest, "method is required")
			return
		}
		err = p.service.SendCommand(ctx, req.Method, req.Params)
	default:
		err = p.service.Dispatch(ctx, req.Command)
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrNotSupported):
			server.WriteError(w, http.StatusNotImplemented, err.Error())
		case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrUnknownFanSpeed):
			server.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			server.WriteError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}
