package processors

import (
	"context"
	"fmt"

	"ecofinds/internal/events"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"
)

// Notifier stores a notification for a user.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

type EventProcessor struct {
	notifier Notifier
	logger   *logger.Logger
}

func NewEventProcessor(notifier Notifier, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		notifier: notifier,
		logger:   logger,
	}
}

// Process turns an event into user notifications. Unknown event types are
// acknowledged and ignored.
func (ep *EventProcessor) Process(ctx context.Context, event events.Event) error {
	ep.logger.Debug("Processing event %s for %s", event.Type, event.AggregateID)

	switch event.Type {
	case events.PurchaseCreated:
		var payload events.PurchaseCreatedPayload
		if err := event.Decode(&payload); err != nil {
			return err
		}
		return ep.purchaseCreated(ctx, payload)
	case events.ProductCreated:
		var payload events.ProductPayload
		if err := event.Decode(&payload); err != nil {
			return err
		}
		return ep.productCreated(ctx, payload)
	default:
		ep.logger.Debug("Ignoring event %s", event.Type)
		return nil
	}
}

func (ep *EventProcessor) purchaseCreated(ctx context.Context, p events.PurchaseCreatedPayload) error {
	history := "/dashboard/history"
	err := ep.notifier.Notify(ctx, &models.Notification{
		UserID:    p.BuyerID,
		Type:      models.NotificationTypeOrder,
		Title:     "Order Confirmed",
		Message:   fmt.Sprintf("Your order of %d item(s) totalling ₹%s has been confirmed.", itemCount(p.Items), p.TotalAmount.StringFixed(2)),
		ActionURL: &history,
		Metadata:  map[string]interface{}{"purchase_id": p.PurchaseID},
	})
	if err != nil {
		return fmt.Errorf("failed to notify buyer %s: %w", p.BuyerID, err)
	}

	// One notification per seller, listing the titles they sold.
	sold := make(map[string][]string)
	var sellers []string
	for _, item := range p.Items {
		if item.SellerID == "" || item.SellerID == p.BuyerID {
			continue
		}
		if _, ok := sold[item.SellerID]; !ok {
			sellers = append(sellers, item.SellerID)
		}
		sold[item.SellerID] = append(sold[item.SellerID], item.Title)
	}

	listings := "/dashboard/listings"
	for _, sellerID := range sellers {
		titles := sold[sellerID]
		msg := fmt.Sprintf("%s bought %q.", buyer(p.BuyerName), titles[0])
		if len(titles) > 1 {
			msg = fmt.Sprintf("%s bought %q and %d more.", buyer(p.BuyerName), titles[0], len(titles)-1)
		}
		err := ep.notifier.Notify(ctx, &models.Notification{
			UserID:    sellerID,
			Type:      models.NotificationTypeOrder,
			Title:     "Item Sold",
			Message:   msg,
			ActionURL: &listings,
			Metadata:  map[string]interface{}{"purchase_id": p.PurchaseID},
		})
		if err != nil {
			return fmt.Errorf("failed to notify seller %s: %w", sellerID, err)
		}
	}

	ep.logger.Info("Purchase %s notified buyer and %d seller(s)", p.PurchaseID, len(sellers))
	return nil
}

func (ep *EventProcessor) productCreated(ctx context.Context, p events.ProductPayload) error {
	url := "/product/" + p.ProductID
	err := ep.notifier.Notify(ctx, &models.Notification{
		UserID:    p.SellerID,
		Type:      models.NotificationTypeListing,
		Title:     "New Listing Live",
		Message:   fmt.Sprintf("%q is now visible to buyers.", p.Title),
		ActionURL: &url,
		Metadata:  map[string]interface{}{"product_id": p.ProductID},
	})
	if err != nil {
		return fmt.Errorf("failed to notify seller %s: %w", p.SellerID, err)
	}
	return nil
}

func itemCount(items []events.PurchaseLine) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func buyer(name string) string {
	if name == "" {
		return "A buyer"
	}
	return name
}
