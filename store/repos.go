package store

import (
	"context"
	"fmt"

	"github.com/eshop-labs/eshop-backend-go/models"
)

// Stores bundles the typed repositories over one resource client.
type Stores struct {
	Products  ProductStore
	Carts     CartStore
	Wishlists WishlistStore
	Addresses AddressStore
	Orders    OrderStore
	Users     UserStore
}

func NewStores(c Client) *Stores {
	return &Stores{
		Products:  ProductStore{c: c},
		Carts:     CartStore{c: c},
		Wishlists: WishlistStore{c: c},
		Addresses: AddressStore{c: c},
		Orders:    OrderStore{c: c},
		Users:     UserStore{c: c},
	}
}

type ProductStore struct {
	c Client
}

func (s ProductStore) List(ctx context.Context) ([]models.Product, error) {
	docs, err := s.c.List(ctx, Products, nil)
	if err != nil {
		return nil, err
	}
	return decodeSlice[models.Product](docs)
}

func (s ProductStore) Get(ctx context.Context, id string) (models.Product, error) {
	doc, err := s.c.Get(ctx, Products, id)
	if err != nil {
		return models.Product{}, err
	}
	return decode[models.Product](doc)
}

func (s ProductStore) Create(ctx context.Context, p models.Product) (models.Product, error) {
	doc, err := toDoc(p)
	if err != nil {
		return models.Product{}, err
	}
	created, err := s.c.Create(ctx, Products, doc)
	if err != nil {
		return models.Product{}, err
	}
	return decode[models.Product](created)
}

func (s ProductStore) Update(ctx context.Context, id string, fields Doc) (models.Product, error) {
	doc, err := s.c.Update(ctx, Products, id, fields)
	if err != nil {
		return models.Product{}, err
	}
	return decode[models.Product](doc)
}

// DecrementStock claims qty units of stock with a single conditional write:
// it applies only when the remaining stock would stay non-negative, and
// reports whether it did.
func (s ProductStore) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	return s.c.IncrementWhere(ctx, Products, id, "stock", -qty, 0)
}

// IncrementStock returns previously claimed stock. Used by checkout
// compensation, so a refusal is an error here.
func (s ProductStore) IncrementStock(ctx context.Context, id string, qty int) error {
	ok, err := s.c.IncrementWhere(ctx, Products, id, "stock", qty, 0)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("stock restore refused for product %s", id)
	}
	return nil
}

type CartStore struct {
	c Client
}

// FindByUser returns the user's open cart, or ErrNotFound when none exists.
func (s CartStore) FindByUser(ctx context.Context, userID string) (models.Cart, error) {
	docs, err := s.c.List(ctx, Carts, Filter{"userId": userID})
	if err != nil {
		return models.Cart{}, err
	}
	if len(docs) == 0 {
		return models.Cart{}, ErrNotFound
	}
	return decode[models.Cart](docs[0])
}

func (s CartStore) Create(ctx context.Context, cart models.Cart) (models.Cart, error) {
	doc, err := toDoc(cart)
	if err != nil {
		return models.Cart{}, err
	}
	created, err := s.c.Create(ctx, Carts, doc)
	if err != nil {
		return models.Cart{}, err
	}
	return decode[models.Cart](created)
}

// SetItems overwrites the cart's item lines.
func (s CartStore) SetItems(ctx context.Context, id string, items []models.CartItem) (models.Cart, error) {
	value, err := toValue(items)
	if err != nil {
		return models.Cart{}, err
	}
	doc, err := s.c.Update(ctx, Carts, id, Doc{"items": value})
	if err != nil {
		return models.Cart{}, err
	}
	return decode[models.Cart](doc)
}

func (s CartStore) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, Carts, id)
}

type WishlistStore struct {
	c Client
}

func (s WishlistStore) FindByUser(ctx context.Context, userID string) (models.Wishlist, error) {
	docs, err := s.c.List(ctx, Wishlists, Filter{"userId": userID})
	if err != nil {
		return models.Wishlist{}, err
	}
	if len(docs) == 0 {
		return models.Wishlist{}, ErrNotFound
	}
	return decode[models.Wishlist](docs[0])
}

func (s WishlistStore) Create(ctx context.Context, w models.Wishlist) (models.Wishlist, error) {
	doc, err := toDoc(w)
	if err != nil {
		return models.Wishlist{}, err
	}
	created, err := s.c.Create(ctx, Wishlists, doc)
	if err != nil {
		return models.Wishlist{}, err
	}
	return decode[models.Wishlist](created)
}

func (s WishlistStore) SetProductIDs(ctx context.Context, id string, productIDs []string) (models.Wishlist, error) {
	value, err := toValue(productIDs)
	if err != nil {
		return models.Wishlist{}, err
	}
	doc, err := s.c.Update(ctx, Wishlists, id, Doc{"productIds": value})
	if err != nil {
		return models.Wishlist{}, err
	}
	return decode[models.Wishlist](doc)
}

type AddressStore struct {
	c Client
}

func (s AddressStore) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	docs, err := s.c.List(ctx, Addresses, Filter{"userId": userID})
	if err != nil {
		return nil, err
	}
	return decodeSlice[models.Address](docs)
}

func (s AddressStore) Get(ctx context.Context, id string) (models.Address, error) {
	doc, err := s.c.Get(ctx, Addresses, id)
	if err != nil {
		return models.Address{}, err
	}
	return decode[models.Address](doc)
}

func (s AddressStore) Create(ctx context.Context, a models.Address) (models.Address, error) {
	doc, err := toDoc(a)
	if err != nil {
		return models.Address{}, err
	}
	created, err := s.c.Create(ctx, Addresses, doc)
	if err != nil {
		return models.Address{}, err
	}
	return decode[models.Address](created)
}

type OrderStore struct {
	c Client
}

func (s OrderStore) Get(ctx context.Context, id string) (models.Order, error) {
	doc, err := s.c.Get(ctx, Orders, id)
	if err != nil {
		return models.Order{}, err
	}
	return decode[models.Order](doc)
}

func (s OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	docs, err := s.c.List(ctx, Orders, Filter{"userId": userID})
	if err != nil {
		return nil, err
	}
	return decodeSlice[models.Order](docs)
}

func (s OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	docs, err := s.c.List(ctx, Orders, nil)
	if err != nil {
		return nil, err
	}
	return decodeSlice[models.Order](docs)
}

func (s OrderStore) Create(ctx context.Context, o models.Order) (models.Order, error) {
	doc, err := toDoc(o)
	if err != nil {
		return models.Order{}, err
	}
	created, err := s.c.Create(ctx, Orders, doc)
	if err != nil {
		return models.Order{}, err
	}
	return decode[models.Order](created)
}

// FindByIdempotencyKey locates a previously placed order for the same logical
// checkout request, or ErrNotFound.
func (s OrderStore) FindByIdempotencyKey(ctx context.Context, userID, key string) (models.Order, error) {
	docs, err := s.c.List(ctx, Orders, Filter{"userId": userID, "idempotencyKey": key})
	if err != nil {
		return models.Order{}, err
	}
	if len(docs) == 0 {
		return models.Order{}, ErrNotFound
	}
	return decode[models.Order](docs[0])
}

// UpdateStatus patches only the status field; everything else on an order is
// immutable after creation.
func (s OrderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	doc, err := s.c.Update(ctx, Orders, id, Doc{"status": string(status)})
	if err != nil {
		return models.Order{}, err
	}
	return decode[models.Order](doc)
}

type UserStore struct {
	c Client
}

// FindByUID looks a user up by their external identity id, or ErrNotFound.
func (s UserStore) FindByUID(ctx context.Context, uid string) (models.User, error) {
	docs, err := s.c.List(ctx, Users, Filter{"uid": uid})
	if err != nil {
		return models.User{}, err
	}
	if len(docs) == 0 {
		return models.User{}, ErrNotFound
	}
	return decode[models.User](docs[0])
}

func (s UserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	doc, err := toDoc(u)
	if err != nil {
		return models.User{}, err
	}
	created, err := s.c.Create(ctx, Users, doc)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](created)
}

func (s UserStore) Update(ctx context.Context, id string, fields Doc) (models.User, error) {
	doc, err := s.c.Update(ctx, Users, id, fields)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](doc)
}
