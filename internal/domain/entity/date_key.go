package entity

import "time"

// DateKey clave entera de fecha con forma YYYYMMDD (ej. 20240115).
type DateKey int

// NewDateKey construye la clave a partir de la parte de fecha de t.
func NewDateKey(t time.Time) DateKey {
	return DateKey(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// Year devuelve dateKey / 10000.
func (k DateKey) Year() int { return int(k) / 10000 }

// Month devuelve (dateKey % 10000) / 100.
func (k DateKey) Month() int { return (int(k) % 10000) / 100 }

// Day devuelve dateKey % 100.
func (k DateKey) Day() int { return int(k) % 100 }
