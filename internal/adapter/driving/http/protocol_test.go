package http

import (
	"encoding/json"
	"testing"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound_Register(t *testing.T) {
	cases := map[string]string{
		`{"type":"register","payload":"alice"}`:                    "alice",
		`{"type":"register","payload":{"displayName":"alice"}}`:    "alice",
		`{"type":"register","payload":{"username":"alice"}}`:       "alice",
		`{"type":"register"}`:                                      "",
		`{"type":"register","payload":null}`:                       "",
		`{"type":"register","payload":42}`:                         "",
		`{"type":"register","payload":{"displayName":["nested"]}}`: "",
	}
	for frame, want := range cases {
		t.Run(frame, func(t *testing.T) {
			req := require.New(t)

			in, err := decodeInbound([]byte(frame))

			req.NoError(err)
			req.Equal(domain.EventRegister, in.Type)
			req.Equal(want, in.DisplayName)
		})
	}
}

func TestDecodeInbound_Rooms(t *testing.T) {
	req := require.New(t)

	join, err := decodeInbound([]byte(`{"type":"join-room","payload":"lobby"}`))
	req.NoError(err)
	req.Equal(domain.RoomID("lobby"), join.RoomID)

	leave, err := decodeInbound([]byte(`{"type":"leave-room","payload":{"roomId":"lobby"}}`))
	req.NoError(err)
	req.Equal(domain.EventLeaveRoom, leave.Type)
	req.Equal(domain.RoomID("lobby"), leave.RoomID)

	empty, err := decodeInbound([]byte(`{"type":"join-room"}`))
	req.NoError(err)
	req.Equal(domain.RoomID(""), empty.RoomID)
}

func TestDecodeInbound_Signal(t *testing.T) {
	req := require.New(t)
	to := domain.NewConnectionID()
	frame := `{"type":"signal","payload":{"to":"` + to.String() + `","from":"spoofed","signal":{"type":"offer","sdp":"v=0"}}}`

	in, err := decodeInbound([]byte(frame))

	req.NoError(err)
	req.Equal(to, in.To)
	req.JSONEq(`{"type":"offer","sdp":"v=0"}`, string(in.Signal))
}

func TestDecodeInbound_Signal_Bad_Target(t *testing.T) {
	req := require.New(t)

	bad, err := decodeInbound([]byte(`{"type":"signal","payload":{"to":"not-a-uuid","signal":{}}}`))
	req.NoError(err)
	req.Empty(bad.To)

	missing, err := decodeInbound([]byte(`{"type":"signal","payload":"nope"}`))
	req.NoError(err)
	req.Empty(missing.To)
}

func TestSignal_Without_Payload_Is_Relayed_As_Null(t *testing.T) {
	req := require.New(t)
	to := domain.NewConnectionID()

	in, err := decodeInbound([]byte(`{"type":"signal","payload":{"to":"` + to.String() + `"}}`))
	req.NoError(err)
	req.Nil(in.Signal)

	out, err := encodeEvent(domain.SignalFrom("a", in.Signal))
	req.NoError(err)
	req.JSONEq(`{"type":"signal","payload":{"from":"a","signal":null}}`, string(out))
}

func TestDecodeInbound_Errors(t *testing.T) {
	req := require.New(t)

	_, err := decodeInbound([]byte(`not json`))
	req.ErrorIs(err, domain.ErrMalformedPayload)

	_, err = decodeInbound([]byte(`{"type":"disconnect"}`))
	req.ErrorIs(err, domain.ErrUnknownEvent)
}

func TestEncodeEvent(t *testing.T) {
	alice := domain.User{ConnectionID: "c1", DisplayName: "alice"}
	cases := []struct {
		name string
		evt  domain.Event
		want string
	}{
		{"registered", domain.Registered(alice),
			`{"type":"registered","payload":{"connectionId":"c1","displayName":"alice"}}`},
		{"user-list", domain.UserList([]domain.User{alice}),
			`{"type":"user-list","payload":[{"connectionId":"c1","displayName":"alice"}]}`},
		{"empty user-list", domain.UserList(nil),
			`{"type":"user-list","payload":[]}`},
		{"user-joined registered", domain.UserJoined(alice.Peer()),
			`{"type":"user-joined","payload":{"connectionId":"c1","displayName":"alice"}}`},
		{"user-joined anonymous", domain.UserJoined(domain.AnonymousPeer("c2")),
			`{"type":"user-joined","payload":{"connectionId":"c2"}}`},
		{"existing-users", domain.ExistingUsers([]domain.Peer{alice.Peer(), domain.AnonymousPeer("c2")}),
			`{"type":"existing-users","payload":[{"connectionId":"c1","displayName":"alice"},{"connectionId":"c2"}]}`},
		{"empty existing-users", domain.ExistingUsers([]domain.Peer{}),
			`{"type":"existing-users","payload":[]}`},
		{"signal", domain.SignalFrom("c1", domain.NewSignal([]byte(`{"candidate":"x","n":[1,2]}`))),
			`{"type":"signal","payload":{"from":"c1","signal":{"candidate":"x","n":[1,2]}}}`},
		{"user-left", domain.UserLeft("c1"),
			`{"type":"user-left","payload":"c1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := encodeEvent(tc.evt)

			require.NoError(t, err)
			require.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestEncodeEvent_Rejects_Unknown_Payload(t *testing.T) {
	_, err := encodeEvent(domain.Event{Type: "x", Payload: struct{}{}})

	require.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestSignal_Roundtrip_Keeps_Structure(t *testing.T) {
	req := require.New(t)
	to := domain.NewConnectionID()
	signal := `{"sdp":"v=0\r\n","nested":{"deep":[true,false,null,1.5,"s"]}}`

	in, err := decodeInbound([]byte(`{"type":"signal","payload":{"to":"` + to.String() + `","signal":` + signal + `}}`))
	req.NoError(err)
	out, err := encodeEvent(domain.SignalFrom("a", in.Signal))
	req.NoError(err)

	var env struct {
		Payload struct {
			From   string          `json:"from"`
			Signal json.RawMessage `json:"signal"`
		} `json:"payload"`
	}
	req.NoError(json.Unmarshal(out, &env))
	req.Equal("a", env.Payload.From)
	req.JSONEq(signal, string(env.Payload.Signal))
}
