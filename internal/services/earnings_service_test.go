package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/models"
)

func TestEarningsSum(t *testing.T) {
	f := newFixtures(t)
	svc := NewEarningsService(f.store)

	f.store.AppendTransaction(models.Transaction{Type: models.TransactionTip, CreatorUsername: "janedoe", FanUsername: "fan1", Amount: 5})
	f.store.AppendTransaction(models.Transaction{Type: models.TransactionPPVUnlock, CreatorUsername: "janedoe", FanUsername: "fan1", Amount: 10})
	f.store.AppendTransaction(models.Transaction{Type: models.TransactionSubscription, CreatorUsername: "janedoe", FanUsername: "fan1", Amount: 20})
	// Another creator's revenue must not leak into the report.
	f.store.AppendTransaction(models.Transaction{Type: models.TransactionTip, CreatorUsername: "substar", FanUsername: "fan1", Amount: 99})

	report, err := svc.ForCreator("JaneDoe")
	require.NoError(t, err)
	assert.Equal(t, 5.0, report.Tips)
	assert.Equal(t, 10.0, report.PPV)
	assert.Equal(t, 20.0, report.Subscriptions)
	assert.Equal(t, 35.0, report.AllTime)
	assert.Len(t, report.Transactions, 3)
}

func TestEarningsEmptyAndUnknown(t *testing.T) {
	f := newFixtures(t)
	svc := NewEarningsService(f.store)

	report, err := svc.ForCreator("janedoe")
	require.NoError(t, err)
	assert.Zero(t, report.AllTime)
	assert.NotNil(t, report.Transactions)

	_, err = svc.ForCreator("nobody")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
