package entity

// Service is the bookable offering. The booking engine only reads its
// identity and active flag; catalog management lives outside the engine.
type Service struct {
	Base
	Name            string  `db:"name"`
	DurationMinutes int     `db:"duration_minutes"`
	Price           float64 `db:"price"`
	IsActive        bool    `db:"is_active"`
}
