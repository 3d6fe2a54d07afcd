package events

import (
	"encoding/json"
	"fmt"

	"github.com/voicegw/voicegw/pkg/asr"
)

// ClientMessage is the interface for all client-to-server control messages.
type ClientMessage interface {
	ClientMessageType() MessageType
}

// ModelSelection sets the session's transcription model. The change affects
// future segments only.
type ModelSelection struct {
	Base
	Model asr.Model `json:"model"`
}

func (m *ModelSelection) ClientMessageType() MessageType {
	return TypeModelSelection
}

// ParseClientMessage decodes one inbound text message. Malformed JSON, an
// unknown type, and an out-of-range model are all reported as errors the
// session turns into an error event; none of them close the connection.
func ParseClientMessage(data []byte) (ClientMessage, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid JSON message: %w", err)
	}

	switch head.Type {
	case TypeModelSelection:
		var msg ModelSelection
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("invalid model_selection message: %w", err)
		}
		if !msg.Model.IsValid() {
			return nil, fmt.Errorf("invalid model: %q (supported: %v)", msg.Model, asr.SupportedModels())
		}
		return &msg, nil
	default:
		return nil, fmt.Errorf("unknown message type: %q", head.Type)
	}
}
