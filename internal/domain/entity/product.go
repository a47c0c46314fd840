package entity

// Product dimensión de producto. ProductID es la clave natural que viene en la hoja "Products";
// Key es la clave subrogada asignada por el store.
type Product struct {
	Key       int64
	ProductID string
	Name      string
	BU        string
	Division  string
	Industry  string
	IsActive  bool
	BatchID   *int64 // lote que lo creó
	Audit
}

// ProductAttributes atributos descriptivos mutables de un producto.
type ProductAttributes struct {
	Name     string
	BU       string
	Division string
	Industry string
}

// Apply sobrescribe los atributos descriptivos. La clave natural y la subrogada no cambian.
func (p *Product) Apply(a ProductAttributes) {
	p.Name = a.Name
	p.BU = a.BU
	p.Division = a.Division
	p.Industry = a.Industry
}
