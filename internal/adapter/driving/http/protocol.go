package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/samber/lo"
)

// envelope is the frame shape in both directions.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type userDTO struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

type peerDTO struct {
	ConnectionID string  `json:"connectionId"`
	DisplayName  *string `json:"displayName,omitempty"`
}

type signalOutDTO struct {
	From   string        `json:"from"`
	Signal domain.Signal `json:"signal"`
}

type signalInDTO struct {
	To     string          `json:"to"`
	Signal json.RawMessage `json:"signal"`
	From   string          `json:"from"`
}

// inbound is a decoded client frame. Fields not relevant to Type are zero.
type inbound struct {
	Type        domain.EventType
	DisplayName string
	RoomID      domain.RoomID
	To          domain.ConnectionID
	Signal      domain.Signal
}

func toUserDTO(u domain.User, _ int) userDTO {
	return userDTO{ConnectionID: u.ConnectionID.String(), DisplayName: u.DisplayName}
}

func toPeerDTO(p domain.Peer, _ int) peerDTO {
	dto := peerDTO{ConnectionID: p.ConnectionID.String()}
	if p.Registered {
		dto.DisplayName = lo.ToPtr(p.DisplayName)
	}
	return dto
}

func encodeEvent(evt domain.Event) ([]byte, error) {
	var payload any
	switch p := evt.Payload.(type) {
	case domain.User:
		payload = toUserDTO(p, 0)
	case []domain.User:
		payload = lo.Map(p, toUserDTO)
	case domain.Peer:
		payload = toPeerDTO(p, 0)
	case []domain.Peer:
		payload = lo.Map(p, toPeerDTO)
	case domain.RelayedSignal:
		payload = signalOutDTO{From: p.From.String(), Signal: p.Signal}
	case domain.ConnectionID:
		payload = p.String()
	default:
		return nil, fmt.Errorf("%w: %s carries %T", domain.ErrMalformedPayload, evt.Type, evt.Payload)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", evt.Type, err)
	}
	return json.Marshal(envelope{Type: string(evt.Type), Payload: raw})
}

// decodeInbound is lenient with payloads: a missing or oddly shaped field
// becomes its zero value, which the router treats as "no display name" or a
// no-op. Only a frame that is not a JSON envelope, or an unknown type, is an
// error.
func decodeInbound(frame []byte) (inbound, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return inbound{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	in := inbound{Type: domain.EventType(env.Type)}
	switch in.Type {
	case domain.EventRegister:
		in.DisplayName = stringOrField(env.Payload, "displayName", "username")
	case domain.EventJoinRoom, domain.EventLeaveRoom:
		in.RoomID = domain.RoomID(stringOrField(env.Payload, "roomId"))
	case domain.EventSignal:
		var dto signalInDTO
		if err := json.Unmarshal(env.Payload, &dto); err != nil {
			return in, nil
		}
		if to, err := domain.ParseConnectionID(dto.To); err == nil {
			in.To = to
		}
		in.Signal = domain.NewSignal(dto.Signal)
	default:
		return in, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, env.Type)
	}
	return in, nil
}

// stringOrField accepts either a bare JSON string or an object holding the
// value under one of keys.
func stringOrField(raw json.RawMessage, keys ...string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok && json.Unmarshal(v, &s) == nil {
			return s
		}
	}
	return ""
}
