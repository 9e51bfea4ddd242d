package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
	"github.com/Jawed-lol/inkwell-sub000/internal/id"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// OrderService converts validated carts into durable orders.
type OrderService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(st *store.Store, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:  st,
		logger: logger,
	}
}

// OrderLineRequest is one client-submitted order line. The price is the price
// the client showed the user; it must still match the catalog at commit time.
type OrderLineRequest struct {
	BookSlug string  `json:"book_slug" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// PlaceOrderRequest contains the candidate order lines.
type PlaceOrderRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemView is an order history line enriched with current book data.
type OrderItemView struct {
	BookSlug   string  `json:"book_slug"`
	Title      string  `json:"title"`
	CoverImage string  `json:"cover_image"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// OrderView is one order in the history listing.
type OrderView struct {
	ID        string          `json:"id"`
	Items     []OrderItemView `json:"items"`
	Total     float64         `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// Place validates the candidate order against current catalog price and
// stock, commits the stock decrement atomically, snapshots the confirmed
// prices into an order record on the user, and prunes the ordered slugs from
// the stored cart. Any validation failure rejects the whole order with no
// stock mutation.
func (s *OrderService) Place(ctx context.Context, userID string, req PlaceOrderRequest) (*domain.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]store.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, store.OrderLine{
			BookSlug: item.BookSlug,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	items, err := s.store.ApplyOrderDecrement(ctx, lines)
	if err != nil {
		return nil, err
	}

	orderID, err := id.Generate(id.PrefixOrder)
	if err != nil {
		s.compensate(ctx, items)
		return nil, fmt.Errorf("generate order ID: %w", err)
	}

	order := domain.Order{
		ID:        orderID,
		Items:     items,
		Total:     domain.OrderTotal(items),
		CreatedAt: time.Now(),
	}

	user.Orders = append(user.Orders, order)
	user.PruneCart(order.OrderedSlugs())
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		// The decrement already committed; give the stock back.
		s.compensate(ctx, items)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.logger.Info("order placed",
		"order_id", order.ID,
		"user_id", userID,
		"lines", len(order.Items),
		"total", order.Total,
	)

	return &order, nil
}

// compensate restores stock after a post-decrement failure. A failed
// restore is logged loudly; it needs operator attention.
func (s *OrderService) compensate(ctx context.Context, items []domain.OrderItem) {
	if err := s.store.RestoreStock(ctx, items); err != nil {
		s.logger.Error("failed to restore stock after aborted order", "error", err)
	}
}

// History returns a page of the user's orders, newest first, with each line
// enriched with the book's current title and cover. Books gone from the
// catalog degrade to placeholder data per line, never failing the listing.
func (s *OrderService) History(ctx context.Context, userID string, params store.PaginationParams) (*store.PaginatedResult[OrderView], error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, len(user.Orders))
	copy(orders, user.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	page := store.Paginate(orders, params)

	views := make([]OrderView, 0, len(page.Items))
	books := make(map[string]*domain.Book)
	for _, order := range page.Items {
		items := make([]OrderItemView, 0, len(order.Items))
		for _, item := range order.Items {
			book, seen := books[item.BookSlug]
			if !seen {
				b, err := s.store.GetBookBySlug(ctx, item.BookSlug)
				if err != nil {
					if !apperrors.Is(err, apperrors.ErrNotFound) {
						return nil, fmt.Errorf("enrich order %s: %w", order.ID, err)
					}
					b = nil
				}
				books[item.BookSlug] = b
				book = b
			}

			view := OrderItemView{
				BookSlug:   item.BookSlug,
				Title:      unknownTitle,
				CoverImage: placeholderCover,
				Quantity:   item.Quantity,
				Price:      item.Price,
			}
			if book != nil {
				view.Title = book.Title
				view.CoverImage = book.CoverImage
			}
			items = append(items, view)
		}

		views = append(views, OrderView{
			ID:        order.ID,
			Items:     items,
			Total:     order.Total,
			CreatedAt: order.CreatedAt,
		})
	}

	return &store.PaginatedResult[OrderView]{
		Items:      views,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
		HasMore:    page.HasMore,
	}, nil
}
