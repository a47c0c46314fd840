package repository

import (
	"context"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
)

// Convención de los Get*: si la fila no existe devuelven (nil, nil); el error se reserva
// para fallos del store.

// ProductRepository define el puerto de persistencia para la dimensión Product.
type ProductRepository interface {
	// Create inserta el producto y asigna product.Key.
	Create(ctx context.Context, product *entity.Product) error
	GetByProductID(ctx context.Context, productID string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
}

// CustomerRepository define el puerto de persistencia para la dimensión Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByCustomerID(ctx context.Context, customerID string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
}

// ExecutiveRepository define el puerto de persistencia para la dimensión Executive.
type ExecutiveRepository interface {
	Create(ctx context.Context, executive *entity.Executive) error
	GetByExecutiveID(ctx context.Context, executiveID string) (*entity.Executive, error)
	Update(ctx context.Context, executive *entity.Executive) error
}

// LocationRepository dimensión Location, indexada por provincia. No tiene Update.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByProvince(ctx context.Context, province string) (*entity.Location, error)
}

// ScenarioRepository dimensión fija de escenarios; búsqueda exacta por nombre.
type ScenarioRepository interface {
	Create(ctx context.Context, scenario *entity.Scenario) error
	GetByName(ctx context.Context, name string) (*entity.Scenario, error)
	Update(ctx context.Context, scenario *entity.Scenario) error
}
