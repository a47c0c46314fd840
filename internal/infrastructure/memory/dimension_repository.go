package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/rentabilidad-api/internal/domain"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository crea el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepository { return &ProductRepository{s: s} }

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.productByID[p.ProductID]; ok {
		return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, p.ProductID)
	}
	p.Key = r.s.products.insert(func(key int64) entity.Product {
		row := *p
		row.Key = key
		return row
	})
	r.s.productByID[p.ProductID] = p.Key
	return nil
}

func (r *ProductRepository) GetByProductID(_ context.Context, productID string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key, ok := r.s.productByID[productID]
	if !ok {
		return nil, nil
	}
	p, _ := r.s.products.get(key)
	return &p, nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products.get(p.Key); !ok {
		return domain.ErrNotFound
	}
	r.s.products.rows[p.Key] = *p
	return nil
}

// CustomerRepository implementación en memoria de repository.CustomerRepository.
type CustomerRepository struct{ s *Store }

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(s *Store) *CustomerRepository { return &CustomerRepository{s: s} }

func (r *CustomerRepository) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customerByID[c.CustomerID]; ok {
		return fmt.Errorf("%w: cliente %q", domain.ErrDuplicate, c.CustomerID)
	}
	c.Key = r.s.customers.insert(func(key int64) entity.Customer {
		row := *c
		row.Key = key
		return row
	})
	r.s.customerByID[c.CustomerID] = c.Key
	return nil
}

func (r *CustomerRepository) GetByCustomerID(_ context.Context, customerID string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key, ok := r.s.customerByID[customerID]
	if !ok {
		return nil, nil
	}
	c, _ := r.s.customers.get(key)
	return &c, nil
}

func (r *CustomerRepository) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers.get(c.Key); !ok {
		return domain.ErrNotFound
	}
	r.s.customers.rows[c.Key] = *c
	return nil
}

// ExecutiveRepository implementación en memoria de repository.ExecutiveRepository.
type ExecutiveRepository struct{ s *Store }

var _ repository.ExecutiveRepository = (*ExecutiveRepository)(nil)

func NewExecutiveRepository(s *Store) *ExecutiveRepository { return &ExecutiveRepository{s: s} }

func (r *ExecutiveRepository) Create(_ context.Context, e *entity.Executive) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.executiveByID[e.ExecutiveID]; ok {
		return fmt.Errorf("%w: ejecutivo %q", domain.ErrDuplicate, e.ExecutiveID)
	}
	e.Key = r.s.executives.insert(func(key int64) entity.Executive {
		row := *e
		row.Key = key
		return row
	})
	r.s.executiveByID[e.ExecutiveID] = e.Key
	return nil
}

func (r *ExecutiveRepository) GetByExecutiveID(_ context.Context, executiveID string) (*entity.Executive, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key, ok := r.s.executiveByID[executiveID]
	if !ok {
		return nil, nil
	}
	e, _ := r.s.executives.get(key)
	return &e, nil
}

func (r *ExecutiveRepository) Update(_ context.Context, e *entity.Executive) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.executives.get(e.Key); !ok {
		return domain.ErrNotFound
	}
	r.s.executives.rows[e.Key] = *e
	return nil
}

// LocationRepository implementación en memoria de repository.LocationRepository.
type LocationRepository struct{ s *Store }

var _ repository.LocationRepository = (*LocationRepository)(nil)

func NewLocationRepository(s *Store) *LocationRepository { return &LocationRepository{s: s} }

func (r *LocationRepository) Create(_ context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locationByProv[l.Province]; ok {
		return fmt.Errorf("%w: ubicación %q", domain.ErrDuplicate, l.Province)
	}
	l.Key = r.s.locations.insert(func(key int64) entity.Location {
		row := *l
		row.Key = key
		return row
	})
	r.s.locationByProv[l.Province] = l.Key
	return nil
}

func (r *LocationRepository) GetByProvince(_ context.Context, province string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key, ok := r.s.locationByProv[province]
	if !ok {
		return nil, nil
	}
	l, _ := r.s.locations.get(key)
	return &l, nil
}

// ScenarioRepository implementación en memoria de repository.ScenarioRepository.
type ScenarioRepository struct{ s *Store }

var _ repository.ScenarioRepository = (*ScenarioRepository)(nil)

func NewScenarioRepository(s *Store) *ScenarioRepository { return &ScenarioRepository{s: s} }

func (r *ScenarioRepository) Create(_ context.Context, sc *entity.Scenario) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.scenarioByName[sc.Name]; ok {
		return fmt.Errorf("%w: escenario %q", domain.ErrDuplicate, sc.Name)
	}
	sc.Key = r.s.scenarios.insert(func(key int64) entity.Scenario {
		row := *sc
		row.Key = key
		return row
	})
	r.s.scenarioByName[sc.Name] = sc.Key
	return nil
}

func (r *ScenarioRepository) GetByName(_ context.Context, name string) (*entity.Scenario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key, ok := r.s.scenarioByName[name]
	if !ok {
		return nil, nil
	}
	sc, _ := r.s.scenarios.get(key)
	return &sc, nil
}

func (r *ScenarioRepository) Update(_ context.Context, sc *entity.Scenario) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.scenarios.get(sc.Key); !ok {
		return domain.ErrNotFound
	}
	r.s.scenarios.rows[sc.Key] = *sc
	return nil
}
