// Package memory implementa los repositorios sobre tablas en memoria indexadas por clave
// subrogada (arena + índice por clave natural). Se usa en tests, en la CLI y con
// STORE_DRIVER=memory.
package memory

import (
	"sync"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
)

// table filas de una entidad indexadas por clave subrogada, en orden de inserción.
type table[T any] struct {
	rows  map[int64]T
	order []int64
	next  int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

// insert asigna la siguiente clave y guarda la fila.
func (t *table[T]) insert(row func(key int64) T) int64 {
	t.next++
	t.rows[t.next] = row(t.next)
	t.order = append(t.order, t.next)
	return t.next
}

func (t *table[T]) get(key int64) (T, bool) {
	v, ok := t.rows[key]
	return v, ok
}

// each recorre las filas en orden de inserción.
func (t *table[T]) each(fn func(T)) {
	for _, k := range t.order {
		fn(t.rows[k])
	}
}

// Store contiene todas las tablas del esquema estrella más los lotes.
type Store struct {
	mu sync.RWMutex

	products   *table[entity.Product]
	customers  *table[entity.Customer]
	executives *table[entity.Executive]
	locations  *table[entity.Location]
	scenarios  *table[entity.Scenario]
	sales      *table[entity.Sale]
	batches    *table[entity.Batch]

	productByID    map[string]int64
	customerByID   map[string]int64
	executiveByID  map[string]int64
	locationByProv map[string]int64
	scenarioByName map[string]int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:       newTable[entity.Product](),
		customers:      newTable[entity.Customer](),
		executives:     newTable[entity.Executive](),
		locations:      newTable[entity.Location](),
		scenarios:      newTable[entity.Scenario](),
		sales:          newTable[entity.Sale](),
		batches:        newTable[entity.Batch](),
		productByID:    make(map[string]int64),
		customerByID:   make(map[string]int64),
		executiveByID:  make(map[string]int64),
		locationByProv: make(map[string]int64),
		scenarioByName: make(map[string]int64),
	}
}

// Accesores de navegación explícita: resuelven la referencia de un hecho por clave en
// cada llamada. Requieren que el llamador tenga el lock de lectura.

func (s *Store) productOf(sale entity.Sale) (entity.Product, bool) {
	return s.products.get(sale.ProductKey)
}

func (s *Store) locationOf(sale entity.Sale) (entity.Location, bool) {
	return s.locations.get(sale.LocationKey)
}

func (s *Store) scenarioOf(sale entity.Sale) (entity.Scenario, bool) {
	return s.scenarios.get(sale.ScenarioKey)
}

func (s *Store) batchOf(sale entity.Sale) (entity.Batch, bool) {
	return s.batches.get(sale.BatchID)
}

// visible indica si el hecho cuenta para la analítica (su lote no está eliminado).
func (s *Store) visible(sale entity.Sale) bool {
	b, ok := s.batchOf(sale)
	return !ok || !b.IsDeleted
}
