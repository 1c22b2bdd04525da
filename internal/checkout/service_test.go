package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agrimarket/agrimarket-backend/internal/orders"
	"github.com/agrimarket/agrimarket-backend/internal/payments"
	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	pkgerrors "github.com/agrimarket/agrimarket-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubGateway struct {
	succeed bool
	err     error
}

func (g stubGateway) Charge(context.Context, payments.ChargeRequest) (*payments.ChargeResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	if g.succeed {
		return &payments.ChargeResult{
			Success:         true,
			TransactionID:   payments.NewMobileMoneyTransactionID(),
			ResponseCode:    "00",
			ResponseMessage: "Payment successful",
		}, nil
	}
	return &payments.ChargeResult{
		Success:         false,
		ResponseCode:    "91",
		ResponseMessage: "Payment declined by provider",
	}, nil
}

type recordingNotifier struct {
	placed    int
	confirmed int
}

func (n *recordingNotifier) OrderPlaced(context.Context, *models.Order)      { n.placed++ }
func (n *recordingNotifier) PaymentConfirmed(context.Context, *models.Order) { n.confirmed++ }

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:checkout_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.CartItem{}, &models.Order{}, &models.OrderItem{}, &models.Payment{},
	))
	return db
}

func buildCheckoutService(t *testing.T, db *gorm.DB, gateway payments.Gateway) (Service, *recordingNotifier) {
	t.Helper()

	notif := &recordingNotifier{}
	settler, err := payments.NewService(payments.ServiceParams{
		Repo:       payments.NewRepository(db),
		OrdersRepo: orders.NewRepository(db),
		Gateway:    gateway,
		Notifier:   notif,
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		DB:       gormTxRunner{db: db},
		Orders:   orders.NewRepository(db),
		Settler:  settler,
		Notifier: notif,
	})
	require.NoError(t, err)
	return svc, notif
}

func mustCreateCheckoutUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("checkout_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Name:         "Checkout Tester",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCreateCheckoutProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func mustAddCartLine(t *testing.T, db *gorm.DB, userID, productID uuid.UUID, quantity int) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}).Error)
}

func codRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		DeliveryAddress: "12 Market Road, Accra",
		PhoneNumber:     "0241234567",
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
	}
}

func mobileMoneyRequest() PlaceOrderRequest {
	provider := enums.MobileMoneyProviderMTN
	number := "0241234567"
	return PlaceOrderRequest{
		DeliveryAddress: "12 Market Road, Accra",
		PhoneNumber:     "0241234567",
		PaymentMethod:   enums.PaymentMethodMobileMoney,
		MobileMoneyProvider: &provider,
		MobileMoneyNumber:   &number,
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, _ := buildCheckoutService(t, db, stubGateway{succeed: true})
	user := mustCreateCheckoutUser(t, db)

	_, err := svc.PlaceOrder(context.Background(), user.ID, codRequest())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "cart is empty", typed.Message())
}

func TestPlaceOrderValidatesMobileMoneyFields(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, _ := buildCheckoutService(t, db, stubGateway{succeed: true})
	user := mustCreateCheckoutUser(t, db)

	req := PlaceOrderRequest{
		DeliveryAddress: "12 Market Road, Accra",
		PhoneNumber:     "0241234567",
		PaymentMethod:   enums.PaymentMethodMobileMoney,
	}
	_, err := svc.PlaceOrder(context.Background(), user.ID, req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPlaceOrderCashOnDelivery(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, notif := buildCheckoutService(t, db, stubGateway{succeed: true})
	ctx := context.Background()
	user := mustCreateCheckoutUser(t, db)
	maize := mustCreateCheckoutProduct(t, db, "Maize 50kg", "120.00", 10)
	beans := mustCreateCheckoutProduct(t, db, "Black Beans", "35.50", 6)
	mustAddCartLine(t, db, user.ID, maize.ID, 2)
	mustAddCartLine(t, db, user.ID, beans.ID, 1)

	resp, err := svc.PlaceOrder(ctx, user.ID, codRequest())
	require.NoError(t, err)
	assert.False(t, resp.PaymentPending)
	assert.True(t, resp.Order.TotalAmount.Equal(decimal.RequireFromString("275.50")), "total %s", resp.Order.TotalAmount)
	assert.Equal(t, enums.OrderStatusProcessing, resp.Order.OrderStatus)
	assert.Equal(t, enums.OrderPaymentPending, resp.Order.PaymentStatus)
	assert.Contains(t, resp.Order.OrderNumber, "ORD-")
	require.Len(t, resp.Order.Items, 2)
	assert.Equal(t, 1, notif.placed)

	// Prices are captured per line at checkout time.
	for _, item := range resp.Order.Items {
		if item.ProductID == maize.ID {
			assert.True(t, item.PriceAtTime.Equal(decimal.RequireFromString("120.00")))
			assert.Equal(t, 2, item.Quantity)
		}
	}

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", resp.Order.ID).First(&payment).Error)
	assert.Equal(t, enums.PaymentStatusPending, payment.Status)
	assert.Equal(t, enums.PaymentMethodCashOnDelivery, payment.Method)
	assert.Contains(t, payment.TransactionID, "COD-")

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount, "checkout must clear the cart")

	var reloadedMaize models.Product
	require.NoError(t, db.First(&reloadedMaize, "id = ?", maize.ID).Error)
	assert.Equal(t, 8, reloadedMaize.StockQuantity)
}

func TestPlaceOrderPriceAtTimeSurvivesPriceChange(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, _ := buildCheckoutService(t, db, stubGateway{succeed: true})
	ctx := context.Background()
	user := mustCreateCheckoutUser(t, db)
	product := mustCreateCheckoutProduct(t, db, "Cocoa Pods", "45.00", 20)
	mustAddCartLine(t, db, user.ID, product.ID, 3)

	resp, err := svc.PlaceOrder(ctx, user.ID, codRequest())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("99.99")).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", resp.Order.ID).First(&item).Error)
	assert.True(t, item.PriceAtTime.Equal(decimal.RequireFromString("45.00")), "price_at_time %s", item.PriceAtTime)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, _ := buildCheckoutService(t, db, stubGateway{succeed: true})
	ctx := context.Background()
	user := mustCreateCheckoutUser(t, db)
	plenty := mustCreateCheckoutProduct(t, db, "Plenty Rice", "60.00", 50)
	scarce := mustCreateCheckoutProduct(t, db, "Scarce Pepper", "15.00", 1)
	mustAddCartLine(t, db, user.ID, plenty.ID, 2)
	mustAddCartLine(t, db, user.ID, scarce.ID, 3)

	_, err := svc.PlaceOrder(ctx, user.ID, codRequest())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "insufficient stock for Scarce Pepper", typed.Message())

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount, "failed checkout must not leave an order behind")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", plenty.ID).Error)
	assert.Equal(t, 50, reloaded.StockQuantity, "rollback must restore every decrement")

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Equal(t, int64(2), cartCount, "cart survives a failed checkout")
}

func TestPlaceOrderMobileMoneySuccess(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, notif := buildCheckoutService(t, db, stubGateway{succeed: true})
	ctx := context.Background()
	user := mustCreateCheckoutUser(t, db)
	product := mustCreateCheckoutProduct(t, db, "Palm Oil 5L", "80.00", 4)
	mustAddCartLine(t, db, user.ID, product.ID, 2)

	resp, err := svc.PlaceOrder(ctx, user.ID, mobileMoneyRequest())
	require.NoError(t, err)
	assert.False(t, resp.PaymentPending)
	assert.Equal(t, enums.OrderPaymentCompleted, resp.Order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusProcessing, resp.Order.OrderStatus)
	require.NotNil(t, resp.Order.TransactionID)
	assert.Contains(t, *resp.Order.TransactionID, "MM-")
	assert.Equal(t, 1, notif.confirmed)

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", resp.Order.ID).First(&payment).Error)
	assert.Equal(t, enums.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.PaymentDate)
}

func TestPlaceOrderMobileMoneyDeclineKeepsOrder(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, notif := buildCheckoutService(t, db, stubGateway{succeed: false})
	ctx := context.Background()
	user := mustCreateCheckoutUser(t, db)
	product := mustCreateCheckoutProduct(t, db, "Cassava Flour", "25.00", 10)
	mustAddCartLine(t, db, user.ID, product.ID, 4)

	resp, err := svc.PlaceOrder(ctx, user.ID, mobileMoneyRequest())
	require.NoError(t, err, "a declined charge is not a checkout failure")
	assert.True(t, resp.PaymentPending)
	assert.Equal(t, "Payment declined by provider", resp.PaymentMessage)
	assert.Equal(t, enums.OrderPaymentPending, resp.Order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusPending, resp.Order.OrderStatus)
	assert.Zero(t, notif.confirmed)

	// The order, the cleared cart, and the reserved stock all survive.
	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", resp.Order.ID).First(&payment).Error)
	assert.Equal(t, enums.PaymentStatusFailed, payment.Status)
	assert.Contains(t, payment.TransactionID, "TXN-")

	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 6, reloaded.StockQuantity)
}

func TestPlaceOrderGatewayErrorReportsPending(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, _ := buildCheckoutService(t, db, stubGateway{err: fmt.Errorf("gateway unreachable")})
	ctx := context.Background()
	user := mustCreateCheckoutUser(t, db)
	product := mustCreateCheckoutProduct(t, db, "Groundnuts", "18.00", 10)
	mustAddCartLine(t, db, user.ID, product.ID, 1)

	resp, err := svc.PlaceOrder(ctx, user.ID, mobileMoneyRequest())
	require.NoError(t, err)
	assert.True(t, resp.PaymentPending)
	assert.Equal(t, enums.OrderPaymentPending, resp.Order.PaymentStatus)
}

func TestOrderNumberFormatAndUniqueness(t *testing.T) {
	const draws = 120
	seen := make(map[string]struct{}, draws)
	for i := 0; i < draws; i++ {
		number := newOrderNumber()
		require.Regexp(t, `^ORD-\d+-\d{6}$`, number)
		if _, dup := seen[number]; dup {
			t.Fatalf("duplicate order number %s after %d draws", number, i)
		}
		seen[number] = struct{}{}
		// Space draws across timestamps so the check does not hinge on
		// the random suffix alone.
		time.Sleep(time.Millisecond)
	}
}
