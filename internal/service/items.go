package service

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"catalog_api/internal/models"
	"catalog_api/internal/query"
	"catalog_api/internal/repository"

	"github.com/google/uuid"
)

const minNameLen = 2

// Document fields a client may write.
const (
	fieldName     = "name"
	fieldPrice    = "price"
	fieldCategory = "category"
	fieldBrand    = "brand"
	fieldSKU      = "sku"
	fieldInStock  = "inStock"
	fieldUpdated  = "updatedAt"
)

// writable lists client-settable fields in validation order.
var writable = []string{fieldName, fieldPrice, fieldCategory, fieldBrand, fieldSKU, fieldInStock}

// ItemService applies validation and the ownership policy on top of the item store.
type ItemService struct {
	items repository.ItemRepo
	now   func() time.Time
}

func NewItemService(items repository.ItemRepo) *ItemService {
	return &ItemService{items: items, now: time.Now}
}

// List needs no identity.
func (s *ItemService) List(ctx context.Context, q query.Query) ([]models.Document, error) {
	docs, err := s.items.List(ctx, q)
	if err != nil {
		return nil, Internal(err)
	}
	return docs, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (*models.Item, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	it, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	if it == nil {
		return nil, ErrNotFound
	}
	return it, nil
}

// Create stores a new item owned by who. payload is a decoded JSON object;
// nil means the body was missing or not an object.
func (s *ItemService) Create(ctx context.Context, payload map[string]any, who models.Identity) (*models.Item, error) {
	if who.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if payload == nil {
		return nil, ErrBodyNotObject
	}

	name, ok := nameValue(payload[fieldName])
	if !ok {
		return nil, Validation("Field 'name' is required (min 2 chars).")
	}
	price, ok := numberValue(payload[fieldPrice])
	if !ok {
		return nil, Validation("Field 'price' is required (number).")
	}
	optional, err := validateFields(payload, fieldCategory, fieldBrand, fieldSKU, fieldInStock)
	if err != nil {
		return nil, err
	}

	owner := who.UserID
	it := models.Item{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Category:  models.DefaultCategory,
		InStock:   true,
		OwnerID:   &owner,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if v, ok := optional[fieldCategory]; ok {
		it.Category = v.(string)
	}
	if v, ok := optional[fieldBrand]; ok {
		it.Brand = v.(string)
	}
	if v, ok := optional[fieldSKU]; ok {
		it.SKU = v.(string)
	}
	if v, ok := optional[fieldInStock]; ok {
		it.InStock = v.(bool)
	}

	if err := s.items.Insert(ctx, it); err != nil {
		return nil, Internal(err)
	}
	return &it, nil
}

// Update applies the recognized fields of payload. Any invalid field aborts
// the whole update before anything is written.
func (s *ItemService) Update(ctx context.Context, id string, payload map[string]any, who models.Identity) (*models.Item, error) {
	if _, err := s.loadForWrite(ctx, id, who); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrBodyRequired
	}
	fields, err := validateFields(payload, writable...)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoUpdateFields
	}
	fields[fieldUpdated] = s.now().UTC().Truncate(time.Second)

	updated, err := s.items.Update(ctx, id, fields)
	if err != nil {
		return nil, Internal(err)
	}
	if updated == nil {
		// removed between the ownership check and the write
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete hard-deletes the item and returns what was removed.
func (s *ItemService) Delete(ctx context.Context, id string, who models.Identity) (*models.Item, error) {
	if _, err := s.loadForWrite(ctx, id, who); err != nil {
		return nil, err
	}
	deleted, err := s.items.Delete(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	if deleted == nil {
		return nil, ErrNotFound
	}
	return deleted, nil
}

// loadForWrite walks the mutation gates: session, id syntax, existence, ownership.
func (s *ItemService) loadForWrite(ctx context.Context, id string, who models.Identity) (*models.Item, error) {
	if who.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(who, *it); err != nil {
		return nil, err
	}
	return it, nil
}

// ValidID reports whether id is the canonical string form of an item id.
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}

// validateFields checks the listed fields that are present in payload and
// returns their normalized values.
func validateFields(payload map[string]any, names ...string) (map[string]any, error) {
	out := make(map[string]any, len(names)+1)
	for _, name := range names {
		raw, present := payload[name]
		if !present {
			continue
		}
		switch name {
		case fieldName:
			v, ok := nameValue(raw)
			if !ok {
				return nil, Validation("Field 'name' must be min 2 chars")
			}
			out[name] = v
		case fieldPrice:
			v, ok := numberValue(raw)
			if !ok {
				return nil, Validation("Field 'price' must be a number")
			}
			out[name] = v
		case fieldCategory, fieldBrand, fieldSKU:
			v, ok := raw.(string)
			if !ok {
				return nil, Validation("Field '" + name + "' must be a string")
			}
			out[name] = strings.TrimSpace(v)
		case fieldInStock:
			v, ok := raw.(bool)
			if !ok {
				return nil, Validation("Field 'inStock' must be boolean")
			}
			out[name] = v
		}
	}
	return out, nil
}

func nameValue(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, utf8.RuneCountInString(s) >= minNameLen
}

func numberValue(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case int:
		f = float64(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
