// Package testutil provides in-memory doubles for handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"bistro-boss/models"
	"bistro-boss/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is an in-memory stand-in for *store.Store. It implements every
// persistence interface the controllers and middleware consume.
type MemStore struct {
	mu sync.Mutex

	Users   map[primitive.ObjectID]models.User
	Menus   map[primitive.ObjectID]models.MenuItem
	Reviews []models.Review
	Cart    map[primitive.ObjectID]models.CartItem
	Orders  map[primitive.ObjectID]models.Order
	Failed  []models.FailedNotification

	// PingErr is returned by Ping
	PingErr error
}

func NewMemStore() *MemStore {
	return &MemStore{
		Users:  map[primitive.ObjectID]models.User{},
		Menus:  map[primitive.ObjectID]models.MenuItem{},
		Cart:   map[primitive.ObjectID]models.CartItem{},
		Orders: map[primitive.ObjectID]models.Order{},
	}
}

// AddUser seeds a user and returns its id
func (m *MemStore) AddUser(email, role string) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	m.Users[id] = models.User{ID: id, Email: email, Role: role}
	return id
}

// AddCartItem seeds a cart item and returns its id
func (m *MemStore) AddCartItem(item models.CartItem) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = primitive.NewObjectID()
	m.Cart[item.ID] = item
	return item.ID
}

func (m *MemStore) Ping(ctx context.Context) error { return m.PingErr }

func (m *MemStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *MemStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemStore) InsertUser(ctx context.Context, user models.User) (models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == user.Email {
			return models.InsertResult{}, store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	m.Users[user.ID] = user
	return models.InsertResult{Acknowledged: true, InsertedID: user.ID}, nil
}

func (m *MemStore) UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return models.UpdateResult{Acknowledged: true}, nil
	}
	if v, ok := fields["role"].(string); ok {
		u.Role = v
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	m.Users[id] = u
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *MemStore) DeleteUser(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return models.DeleteResult{Acknowledged: true}, nil
	}
	delete(m.Users, id)
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (m *MemStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MenuItem{}
	for _, item := range m.Menus {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemStore) FindMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Menus[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (m *MemStore) FindMenuItemByName(ctx context.Context, name string) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.Menus {
		if item.Name == name {
			item := item
			return &item, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemStore) InsertMenuItem(ctx context.Context, item models.MenuItem) (models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = primitive.NewObjectID()
	m.Menus[item.ID] = item
	return models.InsertResult{Acknowledged: true, InsertedID: item.ID}, nil
}

func (m *MemStore) UpdateMenuItem(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Menus[id]
	if !ok {
		return models.UpdateResult{Acknowledged: true}, nil
	}
	if v, ok := fields["name"].(string); ok {
		item.Name = v
	}
	if v, ok := fields["price"].(float64); ok {
		item.Price = v
	}
	if v, ok := fields["category"].(string); ok {
		item.Category = v
	}
	m.Menus[id] = item
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *MemStore) DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Menus[id]; !ok {
		return models.DeleteResult{Acknowledged: true}, nil
	}
	delete(m.Menus, id)
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (m *MemStore) ListReviews(ctx context.Context) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Review{}, m.Reviews...), nil
}

func (m *MemStore) ListCartItems(ctx context.Context, email string) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CartItem{}
	for _, item := range m.Cart {
		if item.Email == email {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MemStore) InsertCartItem(ctx context.Context, item models.CartItem) (models.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = primitive.NewObjectID()
	m.Cart[item.ID] = item
	return models.InsertResult{Acknowledged: true, InsertedID: item.ID}, nil
}

func (m *MemStore) DeleteCartItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Cart[id]; !ok {
		return models.DeleteResult{Acknowledged: true}, nil
	}
	delete(m.Cart, id)
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (m *MemStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.Orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *MemStore) ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.Orders {
		if o.Email == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MemStore) PlaceOrder(ctx context.Context, order models.Order, cartIDs []primitive.ObjectID) (models.InsertResult, models.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	m.Orders[order.ID] = order

	var deleted int64
	for _, id := range cartIDs {
		if _, ok := m.Cart[id]; ok {
			delete(m.Cart, id)
			deleted++
		}
	}
	return models.InsertResult{Acknowledged: true, InsertedID: order.ID},
		models.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

func (m *MemStore) AdminStats(ctx context.Context) (models.AdminStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := models.AdminStats{
		Users:     int64(len(m.Users)),
		MenuItems: int64(len(m.Menus)),
		Orders:    int64(len(m.Orders)),
	}
	for _, o := range m.Orders {
		stats.Revenue += o.Total
	}
	return stats, nil
}

func (m *MemStore) OrderStats(ctx context.Context) ([]bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []bson.M{}
	for _, o := range m.Orders {
		for _, menuID := range o.MenuItemIDs {
			id, err := primitive.ObjectIDFromHex(menuID)
			if err != nil {
				continue
			}
			item, ok := m.Menus[id]
			if !ok {
				continue
			}
			out = append(out, bson.M{"_id": o.ID, "email": o.Email, "menuItemIds": menuID, "menuItems": item})
		}
	}
	return out, nil
}

func (m *MemStore) SaveFailedNotification(ctx context.Context, n models.FailedNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failed = append(m.Failed, n)
	return nil
}

// Counts returns the number of users, cart items and orders
func (m *MemStore) Counts() (users, cart, orders int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), len(m.Cart), len(m.Orders)
}

// HasCartItem reports whether id is still in the cart
func (m *MemStore) HasCartItem(id primitive.ObjectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Cart[id]
	return ok
}

// MenuNamed counts menu items with the given name
func (m *MemStore) MenuNamed(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, item := range m.Menus {
		if item.Name == name {
			n++
		}
	}
	return n
}
