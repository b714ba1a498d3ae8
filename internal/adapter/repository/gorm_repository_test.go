package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/internal/infrastructure/database"
	"ecofinds/internal/usecase"
	apperrors "ecofinds/pkg/errors"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"})))
	assert.True(t, isRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, isRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("connection reset")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(nil))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

// openTestDB connects to TEST_DATABASE_URL, migrates and empties every table.
// The tests using it are skipped when the variable is not set.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Exec(`TRUNCATE users, categories, products, cart_items, orders, order_items,
		conversations, messages, notifications RESTART IDENTITY CASCADE`).Error)

	t.Cleanup(func() {
		database.Close(db)
	})
	return db
}

type fixture struct {
	db         *gorm.DB
	users      repository.UserRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	cart       repository.CartRepository
	chat       repository.ChatRepository
	category   *entity.Category
}

func newFixture(t *testing.T) *fixture {
	db := openTestDB(t)
	f := &fixture{
		db:         db,
		users:      NewGormUserRepository(db),
		categories: NewGormCategoryRepository(db),
		products:   NewGormProductRepository(db),
		cart:       NewGormCartRepository(db),
		chat:       NewGormChatRepository(db),
	}
	ctx := context.Background()
	require.NoError(t, f.categories.EnsureExists(ctx, []string{"Electronics"}))
	category, err := f.categories.GetByName(ctx, "Electronics")
	require.NoError(t, err)
	f.category = category
	return f
}

func (f *fixture) user(t *testing.T, name string) *entity.User {
	t.Helper()
	u := &entity.User{Email: name + "@example.com", Username: name, PasswordHash: "x", Address: name + " street 1"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) product(t *testing.T, seller *entity.User, title string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Title:      title,
		Price:      decimal.RequireFromString("25.00"),
		CategoryID: f.category.ID,
		Condition:  entity.ConditionGood,
		Status:     entity.ProductAvailable,
		SellerID:   seller.ID,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func TestGormMarkSoldOnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, f.user(t, "seller"), "Desk lamp")

	require.NoError(t, f.products.MarkSold(ctx, p.ID))

	err := f.products.MarkSold(ctx, p.ID)
	assert.True(t, apperrors.Is(err, "CONFLICT"))

	stored, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductSold, stored.Status)
}

func TestGormAddOrIncrementMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer")
	p := f.product(t, f.user(t, "seller"), "Desk lamp")

	first, err := f.cart.AddOrIncrement(ctx, buyer.ID, p.ID, 1)
	require.NoError(t, err)
	second, err := f.cart.AddOrIncrement(ctx, buyer.ID, p.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	items, err := f.cart.ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGormConversationUniqueWithoutProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer")
	seller := f.user(t, "seller")
	p := f.product(t, seller, "Desk lamp")

	require.NoError(t, f.chat.CreateConversation(ctx, &entity.Conversation{BuyerID: buyer.ID, SellerID: seller.ID}))
	err := f.chat.CreateConversation(ctx, &entity.Conversation{BuyerID: buyer.ID, SellerID: seller.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	productID := p.ID
	require.NoError(t, f.chat.CreateConversation(ctx, &entity.Conversation{BuyerID: buyer.ID, SellerID: seller.ID, ProductID: &productID}))
	err = f.chat.CreateConversation(ctx, &entity.Conversation{BuyerID: buyer.ID, SellerID: seller.ID, ProductID: &productID})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	found, err := f.chat.FindConversation(ctx, buyer.ID, seller.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, found.ProductID)
}

func TestGormLatestMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := f.user(t, "buyer")
	seller := f.user(t, "seller")
	p := f.product(t, seller, "Desk lamp")
	productID := p.ID

	general := &entity.Conversation{BuyerID: buyer.ID, SellerID: seller.ID}
	about := &entity.Conversation{BuyerID: buyer.ID, SellerID: seller.ID, ProductID: &productID}
	require.NoError(t, f.chat.CreateConversation(ctx, general))
	require.NoError(t, f.chat.CreateConversation(ctx, about))

	for _, m := range []*entity.Message{
		{ConversationID: general.ID, SenderID: buyer.ID, Content: "one", MessageType: entity.MessageTypeText},
		{ConversationID: general.ID, SenderID: seller.ID, Content: "two", MessageType: entity.MessageTypeText},
		{ConversationID: about.ID, SenderID: buyer.ID, Content: "lamp?", MessageType: entity.MessageTypeText},
	} {
		require.NoError(t, f.chat.CreateMessage(ctx, m))
	}

	latest, err := f.chat.LatestMessages(ctx, []uint{general.ID, about.ID})
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "two", latest[general.ID].Content)
	assert.Equal(t, "lamp?", latest[about.ID].Content)

	updated, err := f.chat.MarkMessagesRead(ctx, general.ID, buyer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)
}

func TestGormConcurrentCheckoutSellsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller")
	p := f.product(t, seller, "Only one")

	orders := usecase.NewOrderUseCase(
		NewGormTransactor(f.db), f.cart, f.products, NewGormOrderRepository(f.db),
		NewGormNotificationRepository(f.db), f.users, nil,
	)

	const buyers = 5
	ids := make([]uint, buyers)
	for i := range ids {
		buyer := f.user(t, fmt.Sprintf("buyer%d", i))
		_, err := f.cart.AddOrIncrement(ctx, buyer.ID, p.ID, 1)
		require.NoError(t, err)
		ids[i] = buyer.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = orders.Checkout(ctx, id, usecase.CheckoutInput{})
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.Is(err, "CONFLICT"), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var orderCount, itemCount int64
	require.NoError(t, f.db.Model(&entity.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.db.Model(&entity.OrderItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 1, orderCount)
	assert.EqualValues(t, 1, itemCount)
}
