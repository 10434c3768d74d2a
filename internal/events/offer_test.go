package events

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/funnelkit/funnelkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAndDecodeOfferSelected(t *testing.T) {
	channel := testutil.NewInMemoryPubSub()

	err := PublishOfferSelected(context.Background(), channel, "sess_1", "offer-9")
	require.NoError(t, err)

	published := channel.Published(TopicOfferSelected)
	require.Len(t, published, 1)

	event, err := DecodeOfferSelected(published[0])
	require.NoError(t, err)
	assert.Equal(t, "offer-9", event.OfferID)
	assert.Equal(t, "sess_1", event.SessionID)
}

func TestPublishOfferSelectedBroadcast(t *testing.T) {
	channel := testutil.NewInMemoryPubSub()

	err := PublishOfferSelected(context.Background(), channel, "", "offer-9")
	require.NoError(t, err)

	event, err := DecodeOfferSelected(channel.Published(TopicOfferSelected)[0])
	require.NoError(t, err)
	assert.Empty(t, event.SessionID, "empty session id addresses every session")
}

func TestDecodeOfferSelectedMalformed(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	_, err := DecodeOfferSelected(msg)
	assert.Error(t, err)
}
