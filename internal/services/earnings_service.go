package services

import (
	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/store"
)

// Earnings is a creator's revenue summary with the full transaction list
// for audit display.
type Earnings struct {
	Tips          float64              `json:"tips"`
	PPV           float64              `json:"ppv"`
	Subscriptions float64              `json:"subscriptions"`
	AllTime       float64              `json:"allTime"`
	Transactions  []models.Transaction `json:"transactions"`
}

// EarningsServiceProvider defines the interface for revenue reporting.
type EarningsServiceProvider interface {
	ForCreator(username string) (Earnings, error)
}

// EarningsService folds the transaction ledger into per-creator totals.
// Nothing is cached; every call recomputes from the ledger.
type EarningsService struct {
	store *store.Store
}

// NewEarningsService creates a new EarningsService.
func NewEarningsService(st *store.Store) *EarningsService {
	return &EarningsService{store: st}
}

// ForCreator sums the creator's transactions grouped by type.
func (s *EarningsService) ForCreator(username string) (Earnings, error) {
	creator, err := s.store.CreatorByName(username)
	if err != nil {
		return Earnings{}, err
	}

	earnings := Earnings{Transactions: []models.Transaction{}}
	for _, tx := range s.store.TransactionsFor(creator.Username) {
		switch tx.Type {
		case models.TransactionTip:
			earnings.Tips += tx.Amount
		case models.TransactionPPVUnlock:
			earnings.PPV += tx.Amount
		case models.TransactionSubscription:
			earnings.Subscriptions += tx.Amount
		}
		earnings.AllTime += tx.Amount
		earnings.Transactions = append(earnings.Transactions, tx)
	}
	return earnings, nil
}
