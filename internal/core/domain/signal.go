package domain

import "encoding/json"

// Signal is an opaque negotiation payload (SDP offer/answer, ICE candidate,
// anything else). The server relays the raw JSON bytes untouched.
type Signal json.RawMessage

func NewSignal(raw []byte) Signal {
	if raw == nil {
		return nil
	}
	s := make(Signal, len(raw))
	copy(s, raw)
	return s
}

func (s Signal) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// RelayedSignal is what the addressee receives.
type RelayedSignal struct {
	From   ConnectionID
	Signal Signal
}
