package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/identity"
	"github.com/fanvault/fanvault-be/internal/models"
)

func newMonetizeService(f *fixtures) *MonetizeService {
	svc := NewMonetizeService(f.store)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestTipValidation(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "positive integer", amount: "5", wantErr: false},
		{name: "positive decimal", amount: "2.50", wantErr: false},
		{name: "zero", amount: "0", wantErr: true},
		{name: "negative", amount: "-3", wantErr: true},
		{name: "not a number", amount: "lots", wantErr: true},
		{name: "nan", amount: "NaN", wantErr: true},
		{name: "infinity", amount: "Inf", wantErr: true},
		{name: "empty", amount: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Tip(fan("fan1"), "janedoe", tt.amount, "", nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Tip(%q) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
			}
			if err != nil && apperrors.KindOf(err) != apperrors.KindValidation {
				t.Errorf("Tip(%q) kind = %v, want validation", tt.amount, apperrors.KindOf(err))
			}
		})
	}
}

func TestTipIsNeverDeduplicated(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	for i := 0; i < 3; i++ {
		_, err := svc.Tip(fan("fan1"), "JaneDoe", "5", "great work", nil)
		require.NoError(t, err)
	}

	assert.Len(t, f.store.TransactionsFor("janedoe"), 3)
}

func TestTipAnonymousFallback(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	tx, err := svc.Tip(identity.Viewer{}, "janedoe", "5", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", tx.FanUsername)
	assert.Equal(t, "USD", tx.Currency)
}

func TestTipMessageTruncation(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	tx, err := svc.Tip(fan("fan1"), "janedoe", "5", strings.Repeat("x", 600), nil)
	require.NoError(t, err)
	assert.Len(t, []rune(tx.Message), 500)
}

func TestTipUnknownCreator(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	_, err := svc.Tip(fan("fan1"), "nobody", "5", "", nil)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestUnlockIdempotence(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	first, err := svc.Unlock(fan("fan1"), "janedoe", f.ppvPost.ID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyUnlocked)
	require.NotNil(t, first.Transaction)
	assert.Equal(t, 10.0, first.Transaction.Amount)
	assert.Equal(t, models.TransactionPPVUnlock, first.Transaction.Type)

	second, err := svc.Unlock(fan("FAN1"), "JaneDoe", f.ppvPost.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyUnlocked)
	assert.Nil(t, second.Transaction)
	assert.Equal(t, f.ppvPost.ID, second.UnlockedPostID)

	state := f.store.Snapshot()
	assert.Len(t, state.UnlockedPosts, 1)
	assert.Len(t, state.Transactions, 1)
}

func TestUnlockPreconditions(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	tests := []struct {
		name     string
		viewer   identity.Viewer
		creator  string
		postID   int64
		wantKind apperrors.Kind
	}{
		{name: "guest rejected", viewer: identity.Viewer{}, creator: "janedoe", postID: f.ppvPost.ID, wantKind: apperrors.KindValidation},
		{name: "unknown creator", viewer: fan("fan1"), creator: "nobody", postID: f.ppvPost.ID, wantKind: apperrors.KindNotFound},
		{name: "unknown post", viewer: fan("fan1"), creator: "janedoe", postID: 999, wantKind: apperrors.KindNotFound},
		{name: "post of another creator", viewer: fan("fan1"), creator: "janedoe", postID: f.subPPV.ID, wantKind: apperrors.KindNotFound},
		{name: "non-ppv post", viewer: fan("fan1"), creator: "janedoe", postID: f.freePost.ID, wantKind: apperrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Unlock(tt.viewer, tt.creator, tt.postID)
			if apperrors.KindOf(err) != tt.wantKind {
				t.Errorf("Unlock() error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestSubscribeIdempotenceAndExpiry(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	first, err := svc.Subscribe(fan("fan1"), "substar")
	require.NoError(t, err)
	assert.False(t, first.AlreadySubscribed)
	require.NotNil(t, first.Transaction)
	assert.Equal(t, 20.0, first.Transaction.Amount)
	require.NotNil(t, first.Subscription.ExpiresAt)
	assert.Equal(t, testNow.Add(30*24*time.Hour), *first.Subscription.ExpiresAt)

	// Within the window: success with the existing record, nothing appended.
	second, err := svc.Subscribe(fan("FAN1"), "SubStar")
	require.NoError(t, err)
	assert.True(t, second.AlreadySubscribed)
	assert.Nil(t, second.Transaction)
	assert.Equal(t, first.Subscription.ID, second.Subscription.ID)

	// After expiry: an independent new row.
	svc.now = func() time.Time { return testNow.Add(31 * 24 * time.Hour) }
	third, err := svc.Subscribe(fan("fan1"), "substar")
	require.NoError(t, err)
	assert.False(t, third.AlreadySubscribed)
	assert.NotEqual(t, first.Subscription.ID, third.Subscription.ID)

	state := f.store.Snapshot()
	assert.Len(t, state.Subscriptions, 2)
}

func TestSubscribePreconditions(t *testing.T) {
	f := newFixtures(t)
	svc := newMonetizeService(f)

	_, err := svc.Subscribe(identity.Viewer{}, "substar")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// Free-tier creators cannot be subscribed to.
	_, err = svc.Subscribe(fan("fan1"), "janedoe")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Subscribe(fan("fan1"), "nobody")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
