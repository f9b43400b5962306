package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/payments"
	"github.com/rishi-store/storefront/internal/platform/localstore"
	"github.com/rishi-store/storefront/internal/session"
)

type stubPaymentAPI struct {
	order      domain.PaymentOrder
	createErr  error
	verifyErr  error
	verifiedID int64
	verifiedCB domain.PaymentCallback
}

func (s *stubPaymentAPI) CreatePaymentOrder(ctx context.Context, token, payableType string, payableID, amountCents int64, ttl time.Duration) (domain.PaymentOrder, error) {
	return s.order, s.createErr
}

func (s *stubPaymentAPI) VerifyPayment(ctx context.Context, token string, paymentID int64, cb domain.PaymentCallback) error {
	s.verifiedID = paymentID
	s.verifiedCB = cb
	return s.verifyErr
}

type stubGateway struct {
	session    payments.CheckoutSession
	createErr  error
	verifyErr  error
	lastReq    payments.CheckoutRequest
	verifiedCB domain.PaymentCallback
}

func (s *stubGateway) CreateCheckoutSession(ctx context.Context, provider string, req payments.CheckoutRequest) (payments.CheckoutSession, error) {
	s.lastReq = req
	return s.session, s.createErr
}

func (s *stubGateway) VerifyCallback(ctx context.Context, provider string, cb domain.PaymentCallback) error {
	s.verifiedCB = cb
	return s.verifyErr
}

func loggedInSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(localstore.NewMemoryStore(), nil)
	sess.Login("token-1", &domain.User{ID: 7, Name: "Asha", Email: "asha@example.com"})
	return sess
}

func newService(t *testing.T, api *stubPaymentAPI, gateway *stubGateway, sess *session.Session) *Service {
	t.Helper()
	svc, err := NewService(ServiceDeps{API: api, Gateway: gateway, Session: sess})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestBeginRequiresAuth(t *testing.T) {
	sess := session.New(localstore.NewMemoryStore(), nil)
	svc := newService(t, &stubPaymentAPI{}, &stubGateway{}, sess)

	_, err := svc.Begin(context.Background(), BeginRequest{
		PayableType: "consultation", PayableID: 1, AmountCents: 100,
	})
	if !errors.Is(err, ErrCheckoutAnonymous) {
		t.Fatalf("err = %v, want ErrCheckoutAnonymous", err)
	}
}

func TestBeginOpensGatewaySession(t *testing.T) {
	api := &stubPaymentAPI{order: domain.PaymentOrder{
		PaymentID: 42, OrderID: "order_1", Amount: 49900, Currency: "INR",
	}}
	gateway := &stubGateway{session: payments.CheckoutSession{ID: "order_1", Provider: "razorpay"}}
	svc := newService(t, api, gateway, loggedInSession(t))

	got, err := svc.Begin(context.Background(), BeginRequest{
		PayableType: "consultation", PayableID: 9, AmountCents: 49900, Description: "Consultation",
	})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if got.Provider != "razorpay" {
		t.Fatalf("session = %+v", got)
	}
	if gateway.lastReq.Order.OrderID != "order_1" || gateway.lastReq.Customer.Name != "Asha" {
		t.Fatalf("gateway request = %+v", gateway.lastReq)
	}
	if gateway.lastReq.IdempotencyKey == "" {
		t.Fatal("idempotency key missing")
	}
	if !svc.Pending("order_1") {
		t.Fatal("order not tracked as pending")
	}
}

func TestCompleteVerifiesBothSides(t *testing.T) {
	api := &stubPaymentAPI{order: domain.PaymentOrder{PaymentID: 42, OrderID: "order_1", Amount: 100}}
	gateway := &stubGateway{session: payments.CheckoutSession{Provider: "razorpay"}}
	svc := newService(t, api, gateway, loggedInSession(t))

	if _, err := svc.Begin(context.Background(), BeginRequest{
		PayableType: "consultation", PayableID: 9, AmountCents: 100,
	}); err != nil {
		t.Fatal(err)
	}

	cb := domain.PaymentCallback{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"}
	if err := svc.Complete(context.Background(), cb); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if gateway.verifiedCB != cb || api.verifiedCB != cb || api.verifiedID != 42 {
		t.Fatal("callback not forwarded to both verifiers")
	}
	if svc.Pending("order_1") {
		t.Fatal("completed order still pending")
	}
}

func TestCompleteRejectsUnknownOrder(t *testing.T) {
	svc := newService(t, &stubPaymentAPI{}, &stubGateway{}, loggedInSession(t))
	err := svc.Complete(context.Background(), domain.PaymentCallback{OrderID: "order_x"})
	if !errors.Is(err, ErrUnknownOrder) {
		t.Fatalf("err = %v, want ErrUnknownOrder", err)
	}
}

func TestCompleteStopsOnGatewayRejection(t *testing.T) {
	api := &stubPaymentAPI{order: domain.PaymentOrder{PaymentID: 42, OrderID: "order_1", Amount: 100}}
	gateway := &stubGateway{verifyErr: payments.ErrSignatureMismatch}
	svc := newService(t, api, gateway, loggedInSession(t))

	if _, err := svc.Begin(context.Background(), BeginRequest{
		PayableType: "consultation", PayableID: 9, AmountCents: 100,
	}); err != nil {
		t.Fatal(err)
	}

	err := svc.Complete(context.Background(), domain.PaymentCallback{OrderID: "order_1"})
	if !errors.Is(err, payments.ErrSignatureMismatch) {
		t.Fatalf("err = %v", err)
	}
	if api.verifiedID != 0 {
		t.Fatal("backend verification must not run after gateway rejection")
	}
	if !svc.Pending("order_1") {
		t.Fatal("rejected order should stay pending for retry")
	}
}

func TestDismissDropsPendingOrder(t *testing.T) {
	api := &stubPaymentAPI{order: domain.PaymentOrder{PaymentID: 42, OrderID: "order_1", Amount: 100}}
	svc := newService(t, api, &stubGateway{}, loggedInSession(t))

	if _, err := svc.Begin(context.Background(), BeginRequest{
		PayableType: "consultation", PayableID: 9, AmountCents: 100,
	}); err != nil {
		t.Fatal(err)
	}
	svc.Dismiss("order_1")
	if svc.Pending("order_1") {
		t.Fatal("dismissed order still pending")
	}
}
