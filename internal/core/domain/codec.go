package domain

import (
	"encoding/json"
	"fmt"
)

// DecodeInbound parses one client frame. Every failure wraps ErrMalformedEvent.
func DecodeInbound(data []byte) (Inbound, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedEvent)
	}

	var kind EventType
	raw, ok := fields["type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}
	if err := json.Unmarshal(raw, &kind); err != nil {
		return nil, fmt.Errorf("%w: type: %v", ErrMalformedEvent, err)
	}

	switch {
	case kind == TypeCreateRoom:
		var req struct {
			Nickname string `json:"nickname"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
		}
		return CreateRoom{Nickname: req.Nickname}, nil
	case kind == TypeJoinRoom:
		var req struct {
			RoomID   RoomID `json:"roomId"`
			Nickname string `json:"nickname"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
		}
		return JoinRoom{RoomID: req.RoomID, Nickname: req.Nickname}, nil
	case kind.IsRelay():
		var target ConnID
		if raw, ok := fields["targetId"]; ok {
			if err := json.Unmarshal(raw, &target); err != nil {
				return nil, fmt.Errorf("%w: %s: targetId: %v", ErrMalformedEvent, kind, err)
			}
		}
		return Relay{Kind: kind, TargetID: target, Fields: fields}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, kind)
	}
}

// EncodeOutbound serialises a message for the wire.
func EncodeOutbound(msg Outbound) ([]byte, error) {
	return json.Marshal(msg)
}

func (m RoomCreated) MarshalJSON() ([]byte, error) {
	type wire RoomCreated
	return json.Marshal(struct {
		Type EventType `json:"type"`
		wire
	}{m.Type(), wire(m)})
}

func (m JoinSuccess) MarshalJSON() ([]byte, error) {
	type wire JoinSuccess
	if m.Peers == nil {
		m.Peers = map[ConnID]Peer{}
	}
	return json.Marshal(struct {
		Type EventType `json:"type"`
		wire
	}{m.Type(), wire(m)})
}

func (m JoinError) MarshalJSON() ([]byte, error) {
	type wire JoinError
	return json.Marshal(struct {
		Type EventType `json:"type"`
		wire
	}{m.Type(), wire(m)})
}

func (m NewPeer) MarshalJSON() ([]byte, error) {
	type wire NewPeer
	return json.Marshal(struct {
		Type EventType `json:"type"`
		wire
	}{m.Type(), wire(m)})
}

func (m PeerDisconnected) MarshalJSON() ([]byte, error) {
	type wire PeerDisconnected
	return json.Marshal(struct {
		Type EventType `json:"type"`
		wire
	}{m.Type(), wire(m)})
}

// MarshalJSON writes the original fields back out, with senderId and nickname
// replaced by the server's values.
func (m Relayed) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Fields)+2)
	for k, v := range m.Fields {
		out[k] = v
	}
	sender, err := json.Marshal(m.SenderID)
	if err != nil {
		return nil, err
	}
	nickname, err := json.Marshal(m.Nickname)
	if err != nil {
		return nil, err
	}
	out["senderId"] = sender
	out["nickname"] = nickname
	if _, ok := out["type"]; !ok {
		kind, err := json.Marshal(m.Kind)
		if err != nil {
			return nil, err
		}
		out["type"] = kind
	}
	return json.Marshal(out)
}
