package entity

// Executive dimensión de ejecutivo comercial (hoja "Employees").
type Executive struct {
	Key         int64
	ExecutiveID string
	Name        string
	Title       string
	Region      string
	Email       string
	PhoneNumber string
	IsActive    bool
	BatchID     *int64
	Audit
}

// ExecutiveAttributes atributos descriptivos mutables de un ejecutivo.
type ExecutiveAttributes struct {
	Name        string
	Title       string
	Region      string
	Email       string
	PhoneNumber string
}

// Apply sobrescribe los atributos descriptivos.
func (e *Executive) Apply(a ExecutiveAttributes) {
	e.Name = a.Name
	e.Title = a.Title
	e.Region = a.Region
	e.Email = a.Email
	e.PhoneNumber = a.PhoneNumber
}
