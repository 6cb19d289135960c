package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

const (
	actionGameState   = "game:state"
	actionGameMove    = "game:move"
	actionGameReset   = "game:reset"
	actionGameResize  = "game:resize"
	actionScoresClear = "scores:clear"
	actionDataClear   = "data:clear"
	actionDarkMode    = "prefs:dark-mode"

	actionGameUpdate  = "game:update"
	actionIllegalMove = "game:illegal-move"
	actionError       = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Cell    *int  `json:"cell,omitempty"`
	Size    *int  `json:"size,omitempty"`
	Enabled *bool `json:"enabled,omitempty"`
}

type ResponsePayload struct {
	State    *entity.State `json:"state,omitempty"`
	Cell     *int          `json:"cell,omitempty"`
	DarkMode *bool         `json:"dark_mode,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func newMessage(action string, payload ResponsePayload) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: payloadJSON})
}
