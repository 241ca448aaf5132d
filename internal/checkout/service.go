package checkout

import (
	"context"
	"errors"
	"fmt"

	"ecofinds/internal/apperr"
	"ecofinds/internal/cart"
	"ecofinds/internal/events"
	"ecofinds/internal/logger"
	"ecofinds/internal/models"
	"ecofinds/internal/payment"
	"ecofinds/internal/store"
)

type CartReader interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
}

type ProfileReader interface {
	Get(ctx context.Context, id string) (*models.UserProfile, error)
}

// PurchaseWriter stores the purchase and removes the buyer's cart in one
// step.
type PurchaseWriter interface {
	CreateAndClearCart(ctx context.Context, p *models.Purchase) error
}

type Service struct {
	carts     CartReader
	profiles  ProfileReader
	purchases PurchaseWriter
	processor payment.Processor
	publisher events.Publisher
	logger    *logger.Logger
}

func NewService(
	carts CartReader,
	profiles ProfileReader,
	purchases PurchaseWriter,
	processor payment.Processor,
	publisher events.Publisher,
	logger *logger.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		carts:     carts,
		profiles:  profiles,
		purchases: purchases,
		processor: processor,
		publisher: publisher,
		logger:    logger,
	}
}

// Methods lists the payment methods the configured processor accepts.
func (s *Service) Methods() []payment.Method {
	return s.processor.Methods()
}

// Begin opens a checkout for an authenticated user with a non-empty cart.
func (s *Service) Begin(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	return newSession(userID, profile.Username), nil
}

func (s *Service) SelectMethod(sess *Session, method payment.Method) error {
	if !payment.Supports(s.processor, method) {
		return payment.ErrMethodNotSupported
	}
	if err := sess.enter(StateMethodSelected); err != nil {
		return err
	}
	sess.Method = method
	sess.Error = ""
	return nil
}

func (s *Service) EnterDetails(sess *Session, d Details) error {
	if err := sess.enter(StateCollectingDetails); err != nil {
		return err
	}
	sess.Details.merge(d)
	return nil
}

// Submit validates the entered details, charges the cart total and, on
// success, records the purchase and clears the cart. Any failure leaves the
// cart untouched and the session back in detail collection.
func (s *Service) Submit(ctx context.Context, sess *Session) error {
	if err := sess.enter(StateValidating); err != nil {
		return err
	}
	sess.Error = ""

	if err := sess.Details.validate(sess.Method); err != nil {
		sess.fail(err)
		return err
	}

	c, err := s.carts.Get(ctx, sess.UserID)
	if err != nil {
		err = apperr.Wrap(apperr.KindExternal, "Could not load your cart. Please try again.", err)
		sess.fail(err)
		return err
	}
	if c.IsEmpty() {
		sess.fail(ErrEmptyCart)
		return ErrEmptyCart
	}
	total := cart.Total(c)

	if err := sess.enter(StateSubmitting); err != nil {
		return err
	}

	record := sess.Details.record(sess.Method)
	intent, err := s.processor.Charge(ctx, payment.Charge{
		Amount:          total,
		Method:          sess.Method,
		CardNumber:      sess.Details.CardNumber,
		PaymentMethodID: sess.Details.PaymentMethodID,
		Details:         record,
		Description:     payment.DefaultDescription,
	})
	if err != nil {
		s.logger.Warn("Payment for %s failed: %v", sess.UserID, err)
		sess.fail(err)
		return err
	}

	record["payment_intent_id"] = intent.ID
	if intent.Demo {
		record["demo"] = true
	}
	method := string(sess.Method)
	purchase := &models.Purchase{
		BuyerID:        sess.UserID,
		BuyerName:      sess.BuyerName,
		TotalAmount:    total,
		Status:         models.PurchaseStatusConfirmed,
		PaymentMethod:  &method,
		PaymentDetails: record,
	}
	for _, item := range c.Items {
		purchase.Items = append(purchase.Items, models.PurchaseItemFromCart(item))
	}

	if err := s.purchases.CreateAndClearCart(ctx, purchase); err != nil {
		s.logger.Error("Payment %s captured but purchase for %s was not recorded: %v", intent.ID, sess.UserID, err)
		err = apperr.Wrap(apperr.KindExternal, "Failed to create order. Please try again.", err)
		sess.fail(err)
		return err
	}

	if err := sess.enter(StateSucceeded); err != nil {
		return err
	}
	sess.PurchaseID = purchase.ID
	sess.Redirect = HistoryRedirect

	s.publish(ctx, purchase)
	s.logger.Info("Purchase %s confirmed for %s, total %s", purchase.ID, sess.UserID, total.String())
	return nil
}

func (s *Service) publish(ctx context.Context, p *models.Purchase) {
	payload := events.PurchaseCreatedPayload{
		PurchaseID:  p.ID,
		BuyerID:     p.BuyerID,
		BuyerName:   p.BuyerName,
		TotalAmount: p.TotalAmount,
	}
	for _, item := range p.Items {
		payload.Items = append(payload.Items, events.PurchaseLine{
			ProductID:  item.ProductID,
			Title:      item.ProductTitle,
			SellerID:   item.SellerID,
			SellerName: item.SellerName,
			Price:      item.ProductPrice,
			Quantity:   item.Quantity,
		})
	}

	event, err := events.NewEvent(events.PurchaseCreated, p.ID, p.BuyerID, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Error("Failed to publish purchase %s: %v", p.ID, err)
	}
}
