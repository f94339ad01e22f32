package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/identity"
)

func TestSendMessage(t *testing.T) {
	f := newFixtures(t)
	svc := NewMessageService(f.store)

	msg, err := svc.Send(fan("Fan1"), "JaneDoe", "  hello there  ")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", msg.CreatorUsername)
	assert.Equal(t, "fan1", msg.FanUsername)
	assert.Equal(t, "hello there", msg.Body)

	long, err := svc.Send(fan("fan1"), "janedoe", strings.Repeat("y", 3000))
	require.NoError(t, err)
	assert.Len(t, []rune(long.Body), 2000)
}

func TestSendMessageRejections(t *testing.T) {
	f := newFixtures(t)
	svc := NewMessageService(f.store)

	_, err := svc.Send(identity.Viewer{}, "janedoe", "hi")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Send(fan("fan1"), "janedoe", "   ")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Send(fan("fan1"), "nobody", "hi")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListMessagesOwnerOnly(t *testing.T) {
	f := newFixtures(t)
	svc := NewMessageService(f.store)

	_, err := svc.Send(fan("fan1"), "janedoe", "hi jane")
	require.NoError(t, err)

	messages, err := svc.ListForCreator(authed(1, "JaneDoe"), "janedoe")
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	_, err = svc.ListForCreator(fan("janedoe"), "janedoe")
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))

	empty, err := svc.ListForCreator(authed(2, "substar"), "substar")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
