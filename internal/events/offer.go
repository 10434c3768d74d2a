package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/pubsub"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TopicOfferSelected is the well-known topic unrelated page sections publish
// on to request "select this offer and show checkout". Emitters stay unaware
// of the orchestrator; this is the system's only inversion-of-control seam.
const TopicOfferSelected = "funnel.offer.selected"

// OfferSelected is the payload carried on TopicOfferSelected. SessionID is
// optional: an empty value addresses every mounted funnel session.
type OfferSelected struct {
	OfferID   string `json:"offer_id"`
	SessionID string `json:"session_id,omitempty"`
}

// PublishOfferSelected emits an offer selection request on the shared channel
func PublishOfferSelected(ctx context.Context, publisher pubsub.Publisher, sessionID, offerID string) error {
	payload, err := json.Marshal(OfferSelected{OfferID: offerID, SessionID: sessionID})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Unable to encode offer selected event").
			Mark(ierr.ErrSystem)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return publisher.Publish(ctx, TopicOfferSelected, msg)
}

// DecodeOfferSelected parses an offer selection message
func DecodeOfferSelected(msg *message.Message) (OfferSelected, error) {
	var event OfferSelected
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return event, ierr.WithError(err).
			WithHint("Malformed offer selected event").
			Mark(ierr.ErrValidation)
	}
	return event, nil
}
