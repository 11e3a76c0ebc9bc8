package memory

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria del puerto ProductRepository.
type ProductRepo struct {
	store *Store
}

// NewProductRepository construye el repositorio de productos en memoria.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) Create(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.Barcode == product.Barcode {
			return domain.ErrDuplicateBarcode
		}
	}
	r.store.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: el mutex del Store ya
// serializa los accesos.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.Barcode == barcode {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.products[product.ID]
	if !ok {
		return nil
	}
	// Igual que el adaptador postgres: Update no toca barcode, stock ni status.
	existing.Name = product.Name
	existing.Description = product.Description
	existing.CategoryID = product.CategoryID
	existing.BrandID = product.BrandID
	existing.BuyPrice = product.BuyPrice
	existing.SellPrice = product.SellPrice
	existing.Margin = product.Margin
	existing.UpdatedAt = product.UpdatedAt
	r.store.products[product.ID] = existing
	return nil
}

func (r *ProductRepo) UpdateStock(productID string, stock int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[productID]; ok {
		p.Stock = stock
		p.UpdatedAt = time.Now()
		r.store.products[productID] = p
	}
	return nil
}

func (r *ProductRepo) UpdateStatus(productID, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[productID]; ok {
		p.Status = status
		p.UpdatedAt = time.Now()
		r.store.products[productID] = p
	}
	return nil
}

func (r *ProductRepo) listWhere(keep func(entity.Product) bool) []*entity.Product {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.store.products {
		if keep(p) {
			cp := p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func page(list []*entity.Product, limit, offset int) []*entity.Product {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return page(r.listWhere(func(entity.Product) bool { return true }), limit, offset), nil
}

func (r *ProductRepo) ListByStatus(status string, limit, offset int) ([]*entity.Product, error) {
	return page(r.listWhere(func(p entity.Product) bool { return p.Status == status }), limit, offset), nil
}

func (r *ProductRepo) Search(query string, limit int) ([]*entity.Product, error) {
	list := r.listWhere(func(p entity.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), strings.ToLower(query))
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *ProductRepo) countWhere(keep func(entity.Product) bool) int {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, p := range r.store.products {
		if keep(p) {
			count++
		}
	}
	return count
}

func (r *ProductRepo) CountByCategory(categoryID string) (int, error) {
	return r.countWhere(func(p entity.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *ProductRepo) CountByUnit(unitID string) (int, error) {
	return r.countWhere(func(p entity.Product) bool { return p.UnitID == unitID }), nil
}

func (r *ProductRepo) CountByBrand(brandID string) (int, error) {
	return r.countWhere(func(p entity.Product) bool { return p.BrandID == brandID }), nil
}

func (r *ProductRepo) MaxBarcodeSuffix(prefix string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var max int64
	for _, p := range r.store.products {
		if !strings.HasPrefix(p.Barcode, prefix) {
			continue
		}
		n, err := strconv.ParseInt(p.Barcode[len(prefix):], 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (r *ProductRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, id)
	return nil
}

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo implementación en memoria del libro de stock.
type StockTransactionRepo struct {
	store *Store
}

// NewStockTransactionRepository construye el libro de stock en memoria.
func NewStockTransactionRepository(store *Store) *StockTransactionRepo {
	return &StockTransactionRepo{store: store}
}

func (r *StockTransactionRepo) Create(tx *entity.StockTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextSeq++
	tx.Seq = r.store.nextSeq
	r.store.stockTxs[tx.ID] = *tx
	return nil
}

func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if t, ok := r.store.stockTxs[id]; ok {
		cp := t
		return &cp, nil
	}
	return nil, nil
}

// after reporta orden estricto (timestamp, seq).
func after(a, b entity.StockTransaction) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.Seq > b.Seq
}

func (r *StockTransactionRepo) listWhere(keep func(entity.StockTransaction) bool) []*entity.StockTransaction {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.StockTransaction
	for _, t := range r.store.stockTxs {
		if keep(t) {
			cp := t
			list = append(list, &cp)
		}
	}
	return list
}

func sortReverseChrono(list []*entity.StockTransaction) {
	sort.Slice(list, func(i, j int) bool { return after(*list[i], *list[j]) })
}

func (r *StockTransactionRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockTransaction, error) {
	list := r.listWhere(func(t entity.StockTransaction) bool { return t.ProductID == productID })
	sortReverseChrono(list)
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *StockTransactionRepo) ListByTimeRange(from, to time.Time) ([]*entity.StockTransaction, error) {
	list := r.listWhere(func(t entity.StockTransaction) bool {
		return !t.Timestamp.Before(from) && !t.Timestamp.After(to)
	})
	sort.Slice(list, func(i, j int) bool { return after(*list[j], *list[i]) })
	return list, nil
}

func (r *StockTransactionRepo) Recent(limit int) ([]*entity.StockTransaction, error) {
	list := r.listWhere(func(entity.StockTransaction) bool { return true })
	sortReverseChrono(list)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *StockTransactionRepo) LatestAdjust(productID string) (*entity.StockTransaction, error) {
	list := r.listWhere(func(t entity.StockTransaction) bool {
		return t.ProductID == productID && t.Type == entity.TransactionTypeAdjust
	})
	if len(list) == 0 {
		return nil, nil
	}
	sortReverseChrono(list)
	return list[0], nil
}

func (r *StockTransactionRepo) SumSignedBaseAfter(productID string, afterTs time.Time, afterSeq int64) (int64, error) {
	cutoff := entity.StockTransaction{Timestamp: afterTs, Seq: afterSeq}
	var sum int64
	for _, t := range r.listWhere(func(t entity.StockTransaction) bool { return t.ProductID == productID }) {
		if !after(*t, cutoff) {
			continue
		}
		sum += t.SignedBase()
	}
	return sum, nil
}

func (r *StockTransactionRepo) SummaryByUnit(productID string) ([]repository.UnitStockSummary, error) {
	totals := make(map[string]int64)
	for _, t := range r.listWhere(func(t entity.StockTransaction) bool { return t.ProductID == productID }) {
		switch t.Type {
		case entity.TransactionTypeAdd:
			totals[t.UnitID] += t.Quantity
		case entity.TransactionTypeRemove:
			totals[t.UnitID] -= t.Quantity
		}
	}
	var list []repository.UnitStockSummary
	for unitID, total := range totals {
		list = append(list, repository.UnitStockSummary{UnitID: unitID, Total: total})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UnitID < list[j].UnitID })
	return list, nil
}

func (r *StockTransactionRepo) CountByProduct(productID string) (int, error) {
	return len(r.listWhere(func(t entity.StockTransaction) bool { return t.ProductID == productID })), nil
}

func (r *StockTransactionRepo) DeleteByProduct(productID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var deleted int64
	for id, t := range r.store.stockTxs {
		if t.ProductID == productID {
			delete(r.store.stockTxs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *StockTransactionRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var deleted int64
	for id, t := range r.store.stockTxs {
		if t.Timestamp.Before(cutoff) {
			delete(r.store.stockTxs, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo implementación en memoria del puerto BrandRepository.
type BrandRepo struct {
	store *Store
}

// NewBrandRepository construye el repositorio de marcas en memoria.
func NewBrandRepository(store *Store) *BrandRepo {
	return &BrandRepo{store: store}
}

func (r *BrandRepo) Create(brand *entity.Brand) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.brands {
		if strings.EqualFold(b.Name, brand.Name) {
			return domain.ErrDuplicateName
		}
	}
	r.store.brands[brand.ID] = *brand
	return nil
}

func (r *BrandRepo) GetByID(id string) (*entity.Brand, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if b, ok := r.store.brands[id]; ok {
		cp := b
		return &cp, nil
	}
	return nil, nil
}

func (r *BrandRepo) GetByName(name string) (*entity.Brand, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.brands {
		if strings.EqualFold(b.Name, name) {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BrandRepo) Update(brand *entity.Brand) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.brands[brand.ID] = *brand
	return nil
}

func (r *BrandRepo) List() ([]*entity.Brand, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.Brand
	for _, b := range r.store.brands {
		cp := b
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *BrandRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.brands, id)
	return nil
}

var _ repository.ProductImageRepository = (*ProductImageRepo)(nil)

// ProductImageRepo implementación en memoria del puerto ProductImageRepository.
type ProductImageRepo struct {
	store *Store
}

// NewProductImageRepository construye el repositorio de imágenes en memoria.
func NewProductImageRepository(store *Store) *ProductImageRepo {
	return &ProductImageRepo{store: store}
}

func (r *ProductImageRepo) Create(image *entity.ProductImage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.images[image.ID] = *image
	return nil
}

func (r *ProductImageRepo) ListByProduct(productID string) ([]*entity.ProductImage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.ProductImage
	for _, img := range r.store.images {
		if img.ProductID == productID {
			cp := img
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].OrderIndex != list[j].OrderIndex {
			return list[i].OrderIndex < list[j].OrderIndex
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *ProductImageRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.images, id)
	return nil
}

func (r *ProductImageRepo) DeleteByProduct(productID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var deleted int64
	for id, img := range r.store.images {
		if img.ProductID == productID {
			delete(r.store.images, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ repository.ConfigRepository = (*ConfigRepo)(nil)

// ConfigRepo implementación en memoria del puerto ConfigRepository.
type ConfigRepo struct {
	store *Store
}

// NewConfigRepository construye el repositorio de configuración en memoria.
func NewConfigRepository(store *Store) *ConfigRepo {
	return &ConfigRepo{store: store}
}

func (r *ConfigRepo) Get(key string) (*entity.Config, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if v, ok := r.store.config[key]; ok {
		return &entity.Config{Key: key, Value: v}, nil
	}
	return nil, nil
}

func (r *ConfigRepo) Set(key, value string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.config[key] = value
	return nil
}
