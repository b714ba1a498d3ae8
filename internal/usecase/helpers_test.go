package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ecofinds/internal/adapter/repository/memory"
	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/internal/infrastructure/auth"
)

type publishedEvent struct {
	Target    string
	ID        uint
	EventType string
	Payload   interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishToConversation(conversationID uint, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Target: "conversation", ID: conversationID, EventType: eventType, Payload: payload})
}

func (p *recordingPublisher) PublishToUser(userID uint, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Target: "user", ID: userID, EventType: eventType, Payload: payload})
}

func (p *recordingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type allowAll struct{}

func (allowAll) Allow(string, string) (bool, time.Duration) { return true, 0 }

type denyAll struct{}

func (denyAll) Allow(string, string) (bool, time.Duration) { return false, 30 * time.Second }

type testEnv struct {
	tx            repository.Transactor
	users         repository.UserRepository
	categories    repository.CategoryRepository
	products      repository.ProductRepository
	cart          repository.CartRepository
	orders        repository.OrderRepository
	chatRepo      repository.ChatRepository
	notifications repository.NotificationRepository
	publisher     *recordingPublisher
	tokens        *auth.JWTManager

	auth         *AuthUseCase
	catalog      *ProductUseCase
	carts        *CartUseCase
	checkout     *OrderUseCase
	chat         *ChatUseCase
	notification *NotificationUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	env := &testEnv{
		tx:            memory.NewTransactor(store),
		users:         memory.NewUserRepository(store),
		categories:    memory.NewCategoryRepository(store),
		products:      memory.NewProductRepository(store),
		cart:          memory.NewCartRepository(store),
		orders:        memory.NewOrderRepository(store),
		chatRepo:      memory.NewChatRepository(store),
		notifications: memory.NewNotificationRepository(store),
		publisher:     &recordingPublisher{},
		tokens:        auth.NewJWTManager("test-secret", time.Hour),
	}
	require.NoError(t, env.categories.EnsureExists(context.Background(), entity.DefaultCategories))

	env.auth = NewAuthUseCase(env.users, env.tokens, auth.NewBcryptHasher(bcrypt.MinCost))
	env.catalog = NewProductUseCase(env.products, env.categories)
	env.carts = NewCartUseCase(env.cart, env.products)
	env.checkout = NewOrderUseCase(env.tx, env.cart, env.products, env.orders, env.notifications, env.users, env.publisher)
	env.chat = NewChatUseCase(env.tx, env.chatRepo, env.users, env.products, env.notifications, env.publisher, allowAll{})
	env.notification = NewNotificationUseCase(env.notifications)
	return env
}

func (env *testEnv) user(t *testing.T, username string) *entity.User {
	t.Helper()
	result, err := env.auth.Register(context.Background(), RegisterInput{
		Email:    username + "@example.com",
		Username: username,
		Password: "secret123",
		Address:  username + " street 1",
	})
	require.NoError(t, err)
	return result.User
}

func (env *testEnv) category(t *testing.T, name string) *entity.Category {
	t.Helper()
	c, err := env.categories.GetByName(context.Background(), name)
	require.NoError(t, err)
	return c
}

func (env *testEnv) product(t *testing.T, seller *entity.User, title, price string) *ProductView {
	t.Helper()
	p, err := env.catalog.CreateProduct(context.Background(), seller.ID, CreateProductInput{
		Title:       title,
		Description: "Gently used " + title,
		Price:       decimal.RequireFromString(price),
		CategoryID:  env.category(t, "Electronics").ID,
		Condition:   string(entity.ConditionGood),
	})
	require.NoError(t, err)
	return p
}
