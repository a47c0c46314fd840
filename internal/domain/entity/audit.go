package entity

import "time"

// Audit sellos de creación y modificación de una fila de dimensión.
// ModifiedAt/ModifiedBy quedan en nil hasta la primera actualización.
type Audit struct {
	CreatedAt  time.Time
	CreatedBy  string
	ModifiedAt *time.Time
	ModifiedBy *string
}

// Touch registra una modificación hecha por actorID en el instante now.
func (a *Audit) Touch(actorID string, now time.Time) {
	a.ModifiedAt = &now
	a.ModifiedBy = &actorID
}
