package entity

import "time"

// UnknownLocation valor usado cuando el cliente no trae región o provincia.
const UnknownLocation = "Unknown"

// Location dimensión geográfica. Su clave natural es derivada: la provincia del primer
// cliente que la referencia. Una vez creada no se actualiza nunca, aunque otros clientes
// de la misma provincia traigan otra región o distrito.
type Location struct {
	Key       int64
	Region    string
	Province  string
	District  string
	CreatedAt time.Time
	CreatedBy string
}

// LocationFromCustomer construye la ubicación a partir de los datos del cliente.
func LocationFromCustomer(c *Customer) Location {
	loc := Location{
		Region:   c.Region,
		Province: c.Province,
		District: c.District,
	}
	if loc.Region == "" {
		loc.Region = UnknownLocation
	}
	if loc.Province == "" {
		loc.Province = UnknownLocation
	}
	return loc
}
