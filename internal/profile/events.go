package profile

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicUpdated carries a JSON-encoded View after every state change.
const TopicUpdated = "profile.updated"

// Metadata key holding the username of the profile in the snapshot.
const metaKeyUsername = "username"

func (s *Store) publish(v View) {
	if s.pub == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode profile snapshot", "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if v.Profile != nil {
		msg.Metadata.Set(metaKeyUsername, v.Profile.Username)
	}
	if err := s.pub.Publish(TopicUpdated, msg); err != nil {
		s.log.Error("publish profile snapshot", "topic", TopicUpdated, "error", err)
	}
}

// DecodeView decodes a snapshot published on TopicUpdated.
func DecodeView(msg *message.Message) (View, error) {
	var v View
	err := json.Unmarshal(msg.Payload, &v)
	return v, err
}
