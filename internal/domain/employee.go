package domain

// Employee is an account allowed to manage the DID number inventory.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Username     string
	PasswordHash string
	IsAdmin      bool
}
