// Package memory implementa los puertos de persistencia sobre mapas en
// proceso. Sin durabilidad ni transacciones reales: pensado para tests y
// prototipos, con la misma semántica observable que el adaptador postgres.
package memory

import (
	"context"
	"sync"

	"github.com/bdajaya/adminku-core/internal/application/catalog"
	"github.com/bdajaya/adminku-core/internal/application/categories"
	"github.com/bdajaya/adminku-core/internal/application/stock"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

// Store es el almacén compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	units      map[string]entity.Unit
	categories map[string]entity.Category
	products   map[string]entity.Product
	stockTxs   map[string]entity.StockTransaction
	brands     map[string]entity.Brand
	images     map[string]entity.ProductImage
	config     map[string]string

	nextSeq int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		units:      make(map[string]entity.Unit),
		categories: make(map[string]entity.Category),
		products:   make(map[string]entity.Product),
		stockTxs:   make(map[string]entity.StockTransaction),
		brands:     make(map[string]entity.Brand),
		images:     make(map[string]entity.ProductImage),
		config:     make(map[string]string),
	}
}

var (
	_ stock.TxRunner      = (*TxRunner)(nil)
	_ categories.TxRunner = (*TxRunner)(nil)
	_ catalog.TxRunner    = (*TxRunner)(nil)
)

// TxRunner versión en memoria del ejecutor transaccional. No hay rollback:
// el mutex del Store serializa, y los tests no dependen de atomicidad ante
// fallos a mitad de camino.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el ejecutor sobre el almacén dado.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con los repositorios del libro de stock.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txRepo repository.StockTransactionRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(NewStockTransactionRepository(r.store), NewProductRepository(r.store))
}

// RunTree ejecuta fn con el repositorio de categorías.
func (r *TxRunner) RunTree(ctx context.Context, fn func(categories repository.CategoryRepository) error) error {
	return fn(NewCategoryRepository(r.store))
}

// RunCatalog ejecuta fn con los repositorios del catálogo.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.StockTransactionRepository,
	imageRepo repository.ProductImageRepository,
) error) error {
	return fn(NewProductRepository(r.store), NewStockTransactionRepository(r.store), NewProductImageRepository(r.store))
}
