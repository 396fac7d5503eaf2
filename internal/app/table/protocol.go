/*
Package table hosts the one card table this server runs.

This file defines the JSON wire envelope and the decoding of inbound messages
into login requests or game intents.
*/
package table

import (
	"encoding/json"
	"time"

	"scum/internal/game"
	"scum/internal/pkg/errs"
	"scum/internal/pkg/randx"
)

// Message is the outbound envelope for every event.
type Message struct {
	// ID uniquely identifies the message.
	ID string `json:"id"`

	// Type is the event type.
	Type game.EventType `json:"type"`

	// Timestamp is the send time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Payload is the event body.
	Payload game.Event `json:"payload"`
}

// NewMessage wraps ev in a fresh envelope.
func NewMessage(ev game.Event) Message {
	return Message{
		ID:        randx.MessageID(),
		Type:      ev.Type(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   ev,
	}
}

// LoginRequest asks to join the table, or to reattach to a seat when a
// reconnection token is present.
type LoginRequest struct {
	Username          string `json:"username"`
	ReconnectionToken string `json:"reconnectionToken,omitempty"`
}

type readyPayload struct {
	Ready bool `json:"ready"`
}

type cardsPayload struct {
	Cards []string `json:"cards"`
}

// inboundEnvelope is the shape of every client message.
type inboundEnvelope struct {
	Type    game.IntentType `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// decodeInbound parses a raw client message. Exactly one of login and intent is
// set on success.
func decodeInbound(raw []byte) (login *LoginRequest, intent game.Intent, err error) {
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, errs.NewError(errs.ErrInvalidJSONFormat)
	}

	switch env.Type {
	case game.IntentLoginRequest:
		var req LoginRequest
		if err := unmarshalPayload(env.Payload, &req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil

	case game.IntentSetReadyState:
		var p readyPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, nil, err
		}
		return nil, game.SetReadyState{Ready: p.Ready}, nil

	case game.IntentRequestGameStart:
		return nil, game.RequestGameStart{}, nil

	case game.IntentPass:
		return nil, game.Pass{}, nil

	case game.IntentPlayCards, game.IntentSendCards:
		var p cardsPayload
		if err := unmarshalPayload(env.Payload, &p); err != nil {
			return nil, nil, err
		}

		cards, bad, err := game.ParseCards(p.Cards)
		if err != nil {
			return nil, nil, errs.NewError(errs.ErrInvalidCard, bad)
		}

		if env.Type == game.IntentPlayCards {
			return nil, game.PlayCards{Cards: cards}, nil
		}
		return nil, game.SendCards{Cards: cards}, nil

	default:
		return nil, nil, errs.NewError(errs.ErrUnsupportedIntent, string(env.Type))
	}
}

func unmarshalPayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}
	return nil
}
