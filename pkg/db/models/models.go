package models

// All returns every model the schema holds, in FK dependency order. Used by
// the sqlite auto-migration path and by test setup.
func All() []any {
	return []any{
		&Car{},
		&Customer{},
		&Reservation{},
		&Setting{},
		&Testimonial{},
	}
}
