package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecofinds/internal/domain/entity"
	"ecofinds/pkg/errors"
)

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := env.user(t, "buyer")

	_, err := env.checkout.Checkout(ctx, buyer.ID, CheckoutInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
	assert.Contains(t, err.Error(), "Cart is empty")

	orders, err := env.checkout.ListOrders(ctx, buyer.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), orders.Total)

	unread, err := env.notification.UnreadCount(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestCheckoutCreatesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s1 := env.user(t, "seller1")
	s2 := env.user(t, "seller2")
	buyer := env.user(t, "buyer")

	p1 := env.product(t, s1, "Desk", "49.99")
	p2 := env.product(t, s1, "Chair", "20.10")
	p3 := env.product(t, s2, "Monitor", "99.95")

	for _, line := range []struct {
		id  uint
		qty int
	}{{p1.ID, 1}, {p2.ID, 2}, {p3.ID, 1}} {
		_, err := env.carts.AddToCart(ctx, buyer.ID, line.id, line.qty)
		require.NoError(t, err)
	}

	order, err := env.checkout.Checkout(ctx, buyer.ID, CheckoutInput{})
	require.NoError(t, err)

	// 49.99 + 2*20.10 + 99.95
	assert.Equal(t, "190.14", order.TotalAmount.StringFixed(2))
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, "buyer street 1", order.ShippingAddress)
	require.Len(t, order.Items, 3)
	for _, item := range order.Items {
		require.NotNil(t, item.Seller)
		assert.NotEmpty(t, item.Title)
	}

	for _, id := range []uint{p1.ID, p2.ID, p3.ID} {
		p, err := env.products.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.ProductSold, p.Status)
	}

	cart, err := env.carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, decimal.Zero.Equal(cart.TotalAmount))

	total := int64(0)
	for _, u := range []*entity.User{s1, s2, buyer} {
		n, err := env.notification.UnreadCount(ctx, u.ID)
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, int64(4), total, "one per cart line plus one for the buyer")

	s1Count, err := env.notification.UnreadCount(ctx, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s1Count)

	pushed := env.publisher.byType(EventNewNotification)
	assert.Len(t, pushed, 4)

	sales, err := env.checkout.ListSales(ctx, s1.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sales.Total)
	require.NotNil(t, sales.Items[0].Order)
	assert.Equal(t, buyer.ID, sales.Items[0].Order.Buyer.ID)
}

func TestCheckoutUnavailableItemWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "seller")
	buyer := env.user(t, "buyer")
	available := env.product(t, seller, "Lamp", "10")
	gone := env.product(t, seller, "Rug", "30")

	_, err := env.carts.AddToCart(ctx, buyer.ID, available.ID, 1)
	require.NoError(t, err)
	_, err = env.carts.AddToCart(ctx, buyer.ID, gone.ID, 1)
	require.NoError(t, err)
	require.NoError(t, env.products.MarkSold(ctx, gone.ID))

	_, err = env.checkout.Checkout(ctx, buyer.ID, CheckoutInput{ShippingAddress: "Elsewhere 2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))

	lamp, err := env.products.GetByID(ctx, available.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductAvailable, lamp.Status)

	cart, err := env.carts.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	unread, err := env.notification.UnreadCount(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestConcurrentCheckoutSellsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "seller")
	p := env.product(t, seller, "Guitar", "150")

	buyers := []*entity.User{env.user(t, "buyer1"), env.user(t, "buyer2"), env.user(t, "buyer3")}
	for _, b := range buyers {
		_, err := env.carts.AddToCart(ctx, b.ID, p.ID, 1)
		require.NoError(t, err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for _, b := range buyers {
		wg.Add(1)
		go func(buyerID uint) {
			defer wg.Done()
			_, err := env.checkout.Checkout(ctx, buyerID, CheckoutInput{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, "CONFLICT") {
				conflicts++
			}
		}(b.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, len(buyers)-1, conflicts)
}

func TestGetOrderOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "seller")
	buyer := env.user(t, "buyer")
	p := env.product(t, seller, "Tent", "75")

	_, err := env.carts.AddToCart(ctx, buyer.ID, p.ID, 1)
	require.NoError(t, err)
	order, err := env.checkout.Checkout(ctx, buyer.ID, CheckoutInput{ShippingAddress: "Camp 3"})
	require.NoError(t, err)

	got, err := env.checkout.GetOrder(ctx, buyer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camp 3", got.ShippingAddress)

	_, err = env.checkout.GetOrder(ctx, seller.ID, order.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = env.checkout.GetOrder(ctx, buyer.ID, 999999)
	assert.True(t, errors.IsNotFound(err))
}
