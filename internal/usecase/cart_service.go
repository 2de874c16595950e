package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adega/backend/internal/domain"
)

// CartIDPrefix marks generated cart identifiers
const CartIDPrefix = "CART-"

// CartService resolves cart ids and prices stored quantities against the catalog
type CartService struct {
	store   domain.CartRepository
	catalog *domain.Catalog
	logger  *zap.Logger
	newID   func() string
}

// NewCartService creates a new cart service with dependencies
func NewCartService(store domain.CartRepository, catalog *domain.Catalog, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		store:   store,
		catalog: catalog,
		logger:  logger,
		newID:   generateCartID,
	}
}

// generateCartID returns a fresh random identifier. Collisions are not guarded.
func generateCartID() string {
	return CartIDPrefix + uuid.NewString()
}

// UpsertItems applies quantity changes to a cart, creating it when cartID is blank.
// Qty 0 removes an item; a cart left empty is discarded, but its id is still returned.
func (s *CartService) UpsertItems(
	ctx context.Context,
	cartID string,
	items []domain.CartItemInput,
) (*domain.CartUpsertResult, error) {
	resolvedID := strings.TrimSpace(cartID)
	if resolvedID == "" {
		resolvedID = s.newID()
		s.logger.Debug("Cart created", zap.String("cart_id", resolvedID))
	}

	outcomes, err := s.store.Apply(ctx, resolvedID, items)
	if err != nil {
		return nil, err
	}

	return &domain.CartUpsertResult{
		CartID: resolvedID,
		Items:  outcomes,
	}, nil
}

// GetCartLines returns the priced lines of a cart, skipping items no longer in the catalog.
// Returns domain.ErrCartNotFound when the cart does not exist or has expired.
func (s *CartService) GetCartLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	quantities, err := s.store.Snapshot(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.projectLines(quantities), nil
}

// GetSubtotal sums price x qty over the resolvable items, rounding once at the end
func (s *CartService) GetSubtotal(ctx context.Context, cartID string) (float64, error) {
	quantities, err := s.store.Snapshot(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return s.subtotal(quantities), nil
}

// GetCartSnapshot returns lines and subtotal computed from a single store read
func (s *CartService) GetCartSnapshot(ctx context.Context, cartID string) (*domain.CartSnapshot, error) {
	quantities, err := s.store.Snapshot(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return &domain.CartSnapshot{
		CartID:   cartID,
		Lines:    s.projectLines(quantities),
		Subtotal: s.subtotal(quantities),
	}, nil
}

// projectLines joins stored quantities with catalog data
func (s *CartService) projectLines(quantities []domain.CartQuantity) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(quantities))
	for _, q := range quantities {
		item, ok := s.catalog.FindByItemID(q.ItemPlatformID)
		if !ok {
			continue
		}

		lines = append(lines, domain.CartLine{
			ItemPlatformID: q.ItemPlatformID,
			Name:           item.Name,
			Variant:        item.VariantLabel,
			Pack:           item.PackLabel,
			Price:          item.Price,
			Qty:            q.Qty,
			LineTotal:      roundMoney(item.Price * float64(q.Qty)),
			PriceMissing:   item.PriceMissing,
		})
	}
	return lines
}

func (s *CartService) subtotal(quantities []domain.CartQuantity) float64 {
	var total float64
	for _, q := range quantities {
		item, ok := s.catalog.FindByItemID(q.ItemPlatformID)
		if !ok {
			continue
		}
		total += item.Price * float64(q.Qty)
	}
	return roundMoney(total)
}
