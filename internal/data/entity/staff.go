package entity

type Staff struct {
	Base
	FullName string `db:"full_name"`
	Email    string `db:"email"`
	Phone    string `db:"phone"`
	IsActive bool   `db:"is_active"`
}
