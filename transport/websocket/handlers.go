package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
)

var errMissingField = errors.New("missing field")

func (that *Server) handleGameState(_ context.Context, _ *Message, client *Client) error {
	state := that.session.State()
	client.sendMessage(actionGameUpdate, ResponsePayload{State: &state})

	return nil
}

// handleGameMove - the result reaches every client through Notify, including
// the illegal-move notice.
func (that *Server) handleGameMove(ctx context.Context, msg *Message, client *Client) error {
	payload, err := decodePayload(msg)
	if err != nil {
		client.sendError(msg.Action, err.Error())
		return err
	}

	if payload.Cell == nil {
		client.sendError(msg.Action, "cell is required")
		return fmt.Errorf("cell: %w", errMissingField)
	}

	if _, err = that.session.MakeMove(ctx, *payload.Cell); err != nil {
		if errors.Is(err, apperror.ErrIllegalMove) {
			return nil
		}

		client.sendError(msg.Action, "failed to save the move")
		return fmt.Errorf("failed make move: %w", err)
	}

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, msg *Message, client *Client) error {
	if _, err := that.session.Reset(ctx); err != nil {
		client.sendError(msg.Action, "failed to save the game")
		return fmt.Errorf("failed reset: %w", err)
	}

	return nil
}

func (that *Server) handleGameResize(ctx context.Context, msg *Message, client *Client) error {
	payload, err := decodePayload(msg)
	if err != nil {
		client.sendError(msg.Action, err.Error())
		return err
	}

	if payload.Size == nil {
		client.sendError(msg.Action, "size is required")
		return fmt.Errorf("size: %w", errMissingField)
	}

	size := *payload.Size
	if size > that.maxSize {
		client.sendError(msg.Action, fmt.Sprintf("size %d is above the maximum of %d", size, that.maxSize))
		return fmt.Errorf("%w: %d above max %d", apperror.ErrInvalidSize, size, that.maxSize)
	}

	if _, err = that.session.Resize(ctx, size); err != nil {
		if errors.Is(err, apperror.ErrInvalidSize) {
			client.sendError(msg.Action, fmt.Sprintf("size %d is too small", size))
			return nil
		}

		client.sendError(msg.Action, "failed to save the game")
		return fmt.Errorf("failed resize: %w", err)
	}

	return nil
}

func (that *Server) handleScoresClear(ctx context.Context, msg *Message, client *Client) error {
	if _, err := that.session.ClearScores(ctx); err != nil {
		client.sendError(msg.Action, "failed to save the game")
		return fmt.Errorf("failed clear scores: %w", err)
	}

	return nil
}

func (that *Server) handleDataClear(ctx context.Context, msg *Message, client *Client) error {
	if _, err := that.session.ClearAll(ctx); err != nil {
		client.sendError(msg.Action, "failed to clear saved data")
		return fmt.Errorf("failed clear all: %w", err)
	}

	return nil
}

// handleDarkMode sets the preference when enabled is given and toggles it
// otherwise. The result is broadcast so every client renders the same theme.
func (that *Server) handleDarkMode(ctx context.Context, msg *Message, client *Client) error {
	payload, err := decodePayload(msg)
	if err != nil {
		client.sendError(msg.Action, err.Error())
		return err
	}

	var enabled bool

	if payload.Enabled != nil {
		enabled = *payload.Enabled
		err = that.session.SetDarkMode(ctx, enabled)
	} else {
		enabled, err = that.session.ToggleDarkMode(ctx)
	}

	if err != nil {
		client.sendError(msg.Action, "failed to save the preference")
		return fmt.Errorf("failed dark mode: %w", err)
	}

	message, err := newMessage(actionDarkMode, ResponsePayload{DarkMode: &enabled})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	that.broadcast(message)

	return nil
}

func decodePayload(msg *Message) (*RequestPayload, error) {
	var payload RequestPayload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}
