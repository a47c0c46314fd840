package entity

// Nombres de escenario conocidos. La comparación es exacta y sensible a mayúsculas.
const (
	ScenarioActual = "Actual"
	ScenarioBudget = "Budget"
)

// Scenario dimensión fija de escenarios (Actual, Budget, ...).
type Scenario struct {
	Key         int64
	Name        string
	Description string
}
