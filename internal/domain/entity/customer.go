package entity

// Customer dimensión de cliente. Province alimenta la clave derivada de Location.
type Customer struct {
	Key           int64
	CustomerID    string
	Name          string
	Region        string
	Province      string
	District      string
	Industry      string
	ExecutiveName string
	Email         string
	PhoneNumber   string
	IsActive      bool
	BatchID       *int64
	Audit
}

// CustomerAttributes atributos descriptivos mutables de un cliente.
type CustomerAttributes struct {
	Name          string
	Region        string
	Province      string
	District      string
	Industry      string
	ExecutiveName string
	Email         string
	PhoneNumber   string
}

// Apply sobrescribe nombre, jerarquía geográfica y datos de contacto.
func (c *Customer) Apply(a CustomerAttributes) {
	c.Name = a.Name
	c.Region = a.Region
	c.Province = a.Province
	c.District = a.District
	c.Industry = a.Industry
	c.ExecutiveName = a.ExecutiveName
	c.Email = a.Email
	c.PhoneNumber = a.PhoneNumber
}
