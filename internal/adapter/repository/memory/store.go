// Package memory is an in-process implementation of the domain repositories.
// It backs DB_DRIVER=memory and the use case and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
)

type txKey struct{}

// Store holds every table. mu guards the maps. txMu is held for the whole of
// a transaction and for every write made outside one, so a rollback only ever
// undoes the writes of its own transaction.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	lastID   uint
	lastTime time.Time

	users         map[uint]entity.User
	categories    map[uint]entity.Category
	products      map[uint]entity.Product
	cartItems     map[uint]entity.CartItem
	orders        map[uint]entity.Order
	orderItems    map[uint]entity.OrderItem
	conversations map[uint]entity.Conversation
	messages      map[uint]entity.Message
	notifications map[uint]entity.Notification
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uint]entity.User),
		categories:    make(map[uint]entity.Category),
		products:      make(map[uint]entity.Product),
		cartItems:     make(map[uint]entity.CartItem),
		orders:        make(map[uint]entity.Order),
		orderItems:    make(map[uint]entity.OrderItem),
		conversations: make(map[uint]entity.Conversation),
		messages:      make(map[uint]entity.Message),
		notifications: make(map[uint]entity.Notification),
	}
}

// lock takes the write lock for a repository call. Outside a transaction it
// also waits for any running transaction to finish.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// nextID must be called with mu held for writing. IDs are unique across tables.
func (s *Store) nextID() uint {
	s.lastID++
	return s.lastID
}

// now returns a strictly increasing timestamp so that ordering by creation
// time is stable within the store. Must be called with mu held for writing.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.lastTime) {
		t = s.lastTime.Add(time.Microsecond)
	}
	s.lastTime = t
	return t
}

type snapshot struct {
	users         map[uint]entity.User
	categories    map[uint]entity.Category
	products      map[uint]entity.Product
	cartItems     map[uint]entity.CartItem
	orders        map[uint]entity.Order
	orderItems    map[uint]entity.OrderItem
	conversations map[uint]entity.Conversation
	messages      map[uint]entity.Message
	notifications map[uint]entity.Notification
}

func copyMap[V any](m map[uint]V) map[uint]V {
	out := make(map[uint]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:         copyMap(s.users),
		categories:    copyMap(s.categories),
		products:      copyMap(s.products),
		cartItems:     copyMap(s.cartItems),
		orders:        copyMap(s.orders),
		orderItems:    copyMap(s.orderItems),
		conversations: copyMap(s.conversations),
		messages:      copyMap(s.messages),
		notifications: copyMap(s.notifications),
	}
}

// restore keeps lastID and lastTime so ids and timestamps handed out by the
// failed transaction are never reused.
func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.categories = snap.categories
	s.products = snap.products
	s.cartItems = snap.cartItems
	s.orders = snap.orders
	s.orderItems = snap.orderItems
	s.conversations = snap.conversations
	s.messages = snap.messages
	s.notifications = snap.notifications
}

type transactor struct {
	s *Store
}

func NewTransactor(s *Store) repository.Transactor {
	return &transactor{s: s}
}

// WithinTransaction restores the pre-transaction state when fn fails. Writes
// from outside the transaction wait on txMu until it commits or rolls back.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func cloneStrings(in pq.StringArray) pq.StringArray {
	if in == nil {
		return nil
	}
	out := make(pq.StringArray, len(in))
	copy(out, in)
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func userSummary(u entity.User) *entity.User {
	return &entity.User{ID: u.ID, Username: u.Username, FullName: u.FullName}
}

// sellerOf must be called with mu held.
func (s *Store) sellerOf(id uint) *entity.User {
	if u, ok := s.users[id]; ok {
		return userSummary(u)
	}
	return nil
}
