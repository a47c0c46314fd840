package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/internal/domain/repository"
)

// IdentityResolver traduce claves naturales a claves subrogadas de las dimensiones.
// Las operaciones Resolve* crean o actualizan (upsert) y persisten antes de devolver;
// las Lookup* son de solo lectura.
//
// El patrón buscar-luego-crear no es atómico: el llamador debe garantizar que solo
// un lote se ejecuta a la vez (ver Locker).
type IdentityResolver struct {
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	executives repository.ExecutiveRepository
	locations  repository.LocationRepository
	scenarios  repository.ScenarioRepository
	now        func() time.Time
}

// NewIdentityResolver construye el resolvedor con los repositorios de dimensiones.
func NewIdentityResolver(
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	executives repository.ExecutiveRepository,
	locations repository.LocationRepository,
	scenarios repository.ScenarioRepository,
) *IdentityResolver {
	return &IdentityResolver{
		products:   products,
		customers:  customers,
		executives: executives,
		locations:  locations,
		scenarios:  scenarios,
		now:        time.Now,
	}
}

// ResolveProduct crea el producto o actualiza sus atributos descriptivos.
func (r *IdentityResolver) ResolveProduct(ctx context.Context, productID string, attrs entity.ProductAttributes, batchID int64, actorID string) (int64, error) {
	existing, err := r.products.GetByProductID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("buscar producto %q: %w", productID, err)
	}
	now := r.now()
	if existing != nil {
		existing.Apply(attrs)
		existing.Touch(actorID, now)
		if err := r.products.Update(ctx, existing); err != nil {
			return 0, fmt.Errorf("actualizar producto %q: %w", productID, err)
		}
		return existing.Key, nil
	}

	p := &entity.Product{
		ProductID: productID,
		IsActive:  true,
		BatchID:   &batchID,
		Audit:     entity.Audit{CreatedAt: now, CreatedBy: actorID},
	}
	p.Apply(attrs)
	if err := r.products.Create(ctx, p); err != nil {
		return 0, fmt.Errorf("crear producto %q: %w", productID, err)
	}
	return p.Key, nil
}

// ResolveCustomer crea el cliente o actualiza sus atributos descriptivos.
func (r *IdentityResolver) ResolveCustomer(ctx context.Context, customerID string, attrs entity.CustomerAttributes, batchID int64, actorID string) (int64, error) {
	existing, err := r.customers.GetByCustomerID(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("buscar cliente %q: %w", customerID, err)
	}
	now := r.now()
	if existing != nil {
		existing.Apply(attrs)
		existing.Touch(actorID, now)
		if err := r.customers.Update(ctx, existing); err != nil {
			return 0, fmt.Errorf("actualizar cliente %q: %w", customerID, err)
		}
		return existing.Key, nil
	}

	c := &entity.Customer{
		CustomerID: customerID,
		IsActive:   true,
		BatchID:    &batchID,
		Audit:      entity.Audit{CreatedAt: now, CreatedBy: actorID},
	}
	c.Apply(attrs)
	if err := r.customers.Create(ctx, c); err != nil {
		return 0, fmt.Errorf("crear cliente %q: %w", customerID, err)
	}
	return c.Key, nil
}

// ResolveExecutive crea el ejecutivo o actualiza sus atributos descriptivos.
func (r *IdentityResolver) ResolveExecutive(ctx context.Context, executiveID string, attrs entity.ExecutiveAttributes, batchID int64, actorID string) (int64, error) {
	existing, err := r.executives.GetByExecutiveID(ctx, executiveID)
	if err != nil {
		return 0, fmt.Errorf("buscar ejecutivo %q: %w", executiveID, err)
	}
	now := r.now()
	if existing != nil {
		existing.Apply(attrs)
		existing.Touch(actorID, now)
		if err := r.executives.Update(ctx, existing); err != nil {
			return 0, fmt.Errorf("actualizar ejecutivo %q: %w", executiveID, err)
		}
		return existing.Key, nil
	}

	e := &entity.Executive{
		ExecutiveID: executiveID,
		IsActive:    true,
		BatchID:     &batchID,
		Audit:       entity.Audit{CreatedAt: now, CreatedBy: actorID},
	}
	e.Apply(attrs)
	if err := r.executives.Create(ctx, e); err != nil {
		return 0, fmt.Errorf("crear ejecutivo %q: %w", executiveID, err)
	}
	return e.Key, nil
}

// ResolveLocation devuelve la ubicación de la provincia del cliente, creándola con los
// datos de ese cliente si todavía no existe. Una ubicación existente nunca se modifica.
func (r *IdentityResolver) ResolveLocation(ctx context.Context, customer *entity.Customer, actorID string) (int64, error) {
	loc := entity.LocationFromCustomer(customer)
	existing, err := r.locations.GetByProvince(ctx, loc.Province)
	if err != nil {
		return 0, fmt.Errorf("buscar ubicación %q: %w", loc.Province, err)
	}
	if existing != nil {
		return existing.Key, nil
	}
	loc.CreatedAt = r.now()
	loc.CreatedBy = actorID
	if err := r.locations.Create(ctx, &loc); err != nil {
		return 0, fmt.Errorf("crear ubicación %q: %w", loc.Province, err)
	}
	return loc.Key, nil
}

// EnsureScenario crea el escenario si no existe. Si existe y description no está vacía,
// actualiza la descripción.
func (r *IdentityResolver) EnsureScenario(ctx context.Context, name, description string) (int64, error) {
	existing, err := r.scenarios.GetByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("buscar escenario %q: %w", name, err)
	}
	if existing != nil {
		if description != "" && existing.Description != description {
			existing.Description = description
			if err := r.scenarios.Update(ctx, existing); err != nil {
				return 0, fmt.Errorf("actualizar escenario %q: %w", name, err)
			}
		}
		return existing.Key, nil
	}
	s := &entity.Scenario{Name: name, Description: description}
	if err := r.scenarios.Create(ctx, s); err != nil {
		return 0, fmt.Errorf("crear escenario %q: %w", name, err)
	}
	return s.Key, nil
}

// LookupProduct búsqueda de solo lectura; (nil, nil) si no existe.
func (r *IdentityResolver) LookupProduct(ctx context.Context, productID string) (*entity.Product, error) {
	return r.products.GetByProductID(ctx, productID)
}

// LookupCustomer búsqueda de solo lectura; (nil, nil) si no existe.
func (r *IdentityResolver) LookupCustomer(ctx context.Context, customerID string) (*entity.Customer, error) {
	return r.customers.GetByCustomerID(ctx, customerID)
}

// LookupExecutive búsqueda de solo lectura; (nil, nil) si no existe.
func (r *IdentityResolver) LookupExecutive(ctx context.Context, executiveID string) (*entity.Executive, error) {
	return r.executives.GetByExecutiveID(ctx, executiveID)
}

// LookupScenario búsqueda exacta, sensible a mayúsculas.
func (r *IdentityResolver) LookupScenario(ctx context.Context, name string) (*entity.Scenario, error) {
	return r.scenarios.GetByName(ctx, name)
}
