package services

import (
	"context"
	"sort"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
	"sync"
)

// memStore is an in-memory repository.Store. Transaction snapshots every
// table and restores the snapshot when fn fails.
type memStore struct {
	mu     sync.Mutex
	nextID uint

	categories map[uint]models.Category
	products   map[uint]models.Product
	districts  map[uint]models.District
	customers  map[uint]models.Customer
	orders     map[uint]models.Order
	orderItems map[uint]models.OrderItem
	sliders    map[uint]models.Slider
	features   map[uint]models.PromotionalFeature
	admins     map[uint]models.AdminUser

	// beforeCommit runs inside Transaction after fn succeeds; a non-nil
	// error rolls the transaction back.
	beforeCommit func() error
	// onTransaction runs before fn, outside any snapshot.
	onTransaction func()
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[uint]models.Category{},
		products:   map[uint]models.Product{},
		districts:  map[uint]models.District{},
		customers:  map[uint]models.Customer{},
		orders:     map[uint]models.Order{},
		orderItems: map[uint]models.OrderItem{},
		sliders:    map[uint]models.Slider{},
		features:   map[uint]models.PromotionalFeature{},
		admins:     map[uint]models.AdminUser{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type memSnapshot struct {
	nextID     uint
	categories map[uint]models.Category
	products   map[uint]models.Product
	districts  map[uint]models.District
	customers  map[uint]models.Customer
	orders     map[uint]models.Order
	orderItems map[uint]models.OrderItem
	sliders    map[uint]models.Slider
	features   map[uint]models.PromotionalFeature
	admins     map[uint]models.AdminUser
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		nextID:     m.nextID,
		categories: copyMap(m.categories),
		products:   copyMap(m.products),
		districts:  copyMap(m.districts),
		customers:  copyMap(m.customers),
		orders:     copyMap(m.orders),
		orderItems: copyMap(m.orderItems),
		sliders:    copyMap(m.sliders),
		features:   copyMap(m.features),
		admins:     copyMap(m.admins),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = s.nextID
	m.categories = s.categories
	m.products = s.products
	m.districts = s.districts
	m.customers = s.customers
	m.orders = s.orders
	m.orderItems = s.orderItems
	m.sliders = s.sliders
	m.features = s.features
	m.admins = s.admins
}

func (m *memStore) Categories() repository.CategoryRepository   { return memCategories{m} }
func (m *memStore) Products() repository.ProductRepository      { return memProducts{m} }
func (m *memStore) Districts() repository.DistrictRepository    { return memDistricts{m} }
func (m *memStore) Customers() repository.CustomerRepository    { return memCustomers{m} }
func (m *memStore) Orders() repository.OrderRepository          { return memOrders{m} }
func (m *memStore) OrderItems() repository.OrderItemRepository  { return memOrderItems{m} }
func (m *memStore) Sliders() repository.SliderRepository        { return memSliders{m} }
func (m *memStore) Features() repository.FeatureRepository      { return memFeatures{m} }
func (m *memStore) AdminUsers() repository.AdminUserRepository  { return memAdmins{m} }

func (m *memStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if m.onTransaction != nil {
		m.onTransaction()
	}
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	if m.beforeCommit != nil {
		if err := m.beforeCommit(); err != nil {
			m.restore(snap)
			return err
		}
	}
	return nil
}

func pageOf[T any](items []T, p repository.Page) []T {
	p = p.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type memCategories struct{ m *memStore }

func (r memCategories) Create(_ context.Context, c *models.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.categories {
		if existing.Slug == c.Slug {
			return repository.ErrDuplicate
		}
	}
	c.ID = r.m.id()
	r.m.categories[c.ID] = *c
	return nil
}

func (r memCategories) GetByID(_ context.Context, id uint) (*models.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r memCategories) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categories {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCategories) List(_ context.Context, f repository.CategoryFilter) ([]models.Category, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Category
	for _, id := range sortedKeys(r.m.categories) {
		c := r.m.categories[id]
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, c)
	}
	return pageOf(out, f.Page), int64(len(out)), nil
}

func (r memCategories) Update(_ context.Context, c *models.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.categories[c.ID] = *c
	return nil
}

func (r memCategories) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.categories, id)
	return nil
}

type memProducts struct{ m *memStore }

func (r memProducts) Create(_ context.Context, p *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.products {
		if existing.Slug == p.Slug || existing.SKU == p.SKU {
			return repository.ErrDuplicate
		}
	}
	p.ID = r.m.id()
	r.m.products[p.ID] = *p
	return nil
}

func (r memProducts) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) find(match func(models.Product) bool) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.products {
		if match(p) {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memProducts) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	return r.find(func(p models.Product) bool { return p.Slug == slug })
}

func (r memProducts) GetBySKU(_ context.Context, sku string) (*models.Product, error) {
	return r.find(func(p models.Product) bool { return p.SKU == sku })
}

func (r memProducts) List(_ context.Context, f repository.ProductFilter) ([]models.Product, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Product
	for _, id := range sortedKeys(r.m.products) {
		p := r.m.products[id]
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if f.Featured != nil && p.IsFeatured != *f.Featured {
			continue
		}
		if f.Active != nil && p.IsActive != *f.Active {
			continue
		}
		if f.MinPrice != nil && p.EffectivePrice().LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.EffectivePrice().GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	switch f.Sort {
	case models.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].EffectivePrice().LessThan(out[j].EffectivePrice()) })
	case models.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].EffectivePrice().GreaterThan(out[j].EffectivePrice()) })
	case models.SortName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return pageOf(out, f.Page), int64(len(out)), nil
}

func (r memProducts) Update(_ context.Context, p *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, existing := range r.m.products {
		if id != p.ID && (existing.Slug == p.Slug || existing.SKU == p.SKU) {
			return repository.ErrDuplicate
		}
	}
	r.m.products[p.ID] = *p
	return nil
}

func (r memProducts) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.products, id)
	return nil
}

func (r memProducts) CountByCategory(_ context.Context, categoryID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, p := range r.m.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r memProducts) DeleteByCategory(_ context.Context, categoryID uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, p := range r.m.products {
		if p.CategoryID == categoryID {
			delete(r.m.products, id)
		}
	}
	return nil
}

func (r memProducts) DecrementStock(_ context.Context, id uint, quantity int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok || p.StockQuantity < quantity {
		return false, nil
	}
	p.StockQuantity -= quantity
	r.m.products[id] = p
	return true, nil
}

func (r memProducts) IncrementStock(_ context.Context, id uint, quantity int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p, ok := r.m.products[id]; ok {
		p.StockQuantity += quantity
		r.m.products[id] = p
	}
	return nil
}

type memDistricts struct{ m *memStore }

func (r memDistricts) Create(_ context.Context, d *models.District) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d.ID = r.m.id()
	r.m.districts[d.ID] = *d
	return nil
}

func (r memDistricts) GetByID(_ context.Context, id uint) (*models.District, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.districts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r memDistricts) GetByName(_ context.Context, name string) (*models.District, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, d := range r.m.districts {
		if strings.EqualFold(d.Name, name) {
			d := d
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memDistricts) List(_ context.Context, activeOnly bool) ([]models.District, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.District
	for _, id := range sortedKeys(r.m.districts) {
		if d := r.m.districts[id]; !activeOnly || d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r memDistricts) Update(_ context.Context, d *models.District) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.districts[d.ID] = *d
	return nil
}

func (r memDistricts) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.districts, id)
	return nil
}

type memCustomers struct{ m *memStore }

func (r memCustomers) Create(_ context.Context, c *models.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c.ID = r.m.id()
	r.m.customers[c.ID] = *c
	return nil
}

func (r memCustomers) GetByID(_ context.Context, id uint) (*models.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r memCustomers) GetByEmail(_ context.Context, email string) (*models.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.customers {
		if c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCustomers) List(_ context.Context, f repository.CustomerFilter) ([]models.Customer, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Customer
	for _, id := range sortedKeys(r.m.customers) {
		c := r.m.customers[id]
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return pageOf(out, f.Page), int64(len(out)), nil
}

func (r memCustomers) Update(_ context.Context, c *models.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.customers[c.ID] = *c
	return nil
}

func (r memCustomers) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.customers, id)
	return nil
}

type memOrders struct{ m *memStore }

func (r memOrders) Create(_ context.Context, o *models.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.orders {
		if existing.OrderNumber == o.OrderNumber {
			return repository.ErrDuplicate
		}
	}
	o.ID = r.m.id()
	stored := *o
	stored.Items = nil
	r.m.orders[o.ID] = stored
	return nil
}

// withItems must be called with the lock held.
func (r memOrders) withItems(o models.Order) *models.Order {
	o.Items = nil
	for _, id := range sortedKeys(r.m.orderItems) {
		if item := r.m.orderItems[id]; item.OrderID == o.ID {
			o.Items = append(o.Items, item)
		}
	}
	return &o
}

func (r memOrders) GetByID(_ context.Context, id uint) (*models.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withItems(o), nil
}

func (r memOrders) GetByOrderNumber(_ context.Context, number string) (*models.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, o := range r.m.orders {
		if o.OrderNumber == number {
			return r.withItems(o), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memOrders) List(_ context.Context, f repository.OrderFilter) ([]models.Order, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Order
	for _, id := range sortedKeys(r.m.orders) {
		o := r.m.orders[id]
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *f.CustomerID) {
			continue
		}
		out = append(out, o)
	}
	return pageOf(out, f.Page), int64(len(out)), nil
}

func (r memOrders) Update(_ context.Context, o *models.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.orders[o.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored := *o
	stored.Items = nil
	stored.Status = current.Status
	r.m.orders[o.ID] = stored
	return nil
}

func (r memOrders) TransitionStatus(_ context.Context, id uint, from, to models.OrderStatus) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok || o.Status != string(from) {
		return false, nil
	}
	o.Status = string(to)
	r.m.orders[id] = o
	return true, nil
}

func (r memOrders) CountByCustomer(_ context.Context, customerID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, o := range r.m.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

type memOrderItems struct{ m *memStore }

func (r memOrderItems) CreateBatch(_ context.Context, items []models.OrderItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range items {
		items[i].ID = r.m.id()
		r.m.orderItems[items[i].ID] = items[i]
	}
	return nil
}

func (r memOrderItems) GetByOrderID(_ context.Context, orderID uint) ([]models.OrderItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.OrderItem
	for _, id := range sortedKeys(r.m.orderItems) {
		if item := r.m.orderItems[id]; item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

type memSliders struct{ m *memStore }

func (r memSliders) Create(_ context.Context, s *models.Slider) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s.ID = r.m.id()
	r.m.sliders[s.ID] = *s
	return nil
}

func (r memSliders) GetByID(_ context.Context, id uint) (*models.Slider, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sliders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r memSliders) GetBySortOrder(_ context.Context, sortOrder int) (*models.Slider, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.sliders {
		if s.SortOrder == sortOrder {
			s := s
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memSliders) List(_ context.Context, activeOnly bool) ([]models.Slider, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Slider
	for _, id := range sortedKeys(r.m.sliders) {
		if s := r.m.sliders[id]; !activeOnly || s.IsActive {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r memSliders) Update(_ context.Context, s *models.Slider) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.sliders[s.ID] = *s
	return nil
}

func (r memSliders) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.sliders, id)
	return nil
}

type memFeatures struct{ m *memStore }

func (r memFeatures) Create(_ context.Context, f *models.PromotionalFeature) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f.ID = r.m.id()
	r.m.features[f.ID] = *f
	return nil
}

func (r memFeatures) GetByID(_ context.Context, id uint) (*models.PromotionalFeature, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.features[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r memFeatures) List(_ context.Context, activeOnly bool) ([]models.PromotionalFeature, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.PromotionalFeature
	for _, id := range sortedKeys(r.m.features) {
		if f := r.m.features[id]; !activeOnly || f.IsActive {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r memFeatures) Update(_ context.Context, f *models.PromotionalFeature) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.features[f.ID] = *f
	return nil
}

func (r memFeatures) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.features, id)
	return nil
}

type memAdmins struct{ m *memStore }

func (r memAdmins) Create(_ context.Context, a *models.AdminUser) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a.ID = r.m.id()
	r.m.admins[a.ID] = *a
	return nil
}

func (r memAdmins) GetByID(_ context.Context, id uint) (*models.AdminUser, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r memAdmins) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.admins {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}
