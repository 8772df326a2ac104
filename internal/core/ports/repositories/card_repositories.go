package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// CardReader defines read operations for card data
type CardReader interface {
	// FindCardByID retrieves a card by its ID.
	FindCardByID(ctx context.Context, cardID string) (*domain.Card, error)

	// ListActiveCards retrieves every card with status active.
	ListActiveCards(ctx context.Context) ([]domain.Card, error)
}

// CardWriter defines write operations for card data
type CardWriter interface {
	// SaveCard persists a new card.
	SaveCard(ctx context.Context, card domain.Card) error

	// UpdateCardStatus changes the card status.
	UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, userID string, now time.Time) error
}

// CardRepositoryFacade combines all card-related repository interfaces
type CardRepositoryFacade interface {
	CardReader
	CardWriter
}
