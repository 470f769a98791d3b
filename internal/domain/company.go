package domain

import "time"

type Company struct {
	ID          string    `db:"id"`
	CompanyName string    `db:"company_name"`
	Email       *string   `db:"email"`
	Contact     *string   `db:"contact"`
	Location    *string   `db:"location"`
	APIKey      string    `db:"apikey"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
