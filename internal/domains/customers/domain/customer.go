package domain

// Address is a delivery address owned by a customer.
type Address struct {
	ID       int64
	Line1    string
	Line2    string
	City     string
	Country  string
	PostCode string
}

// Customer is the identity aggregate. Sub is the external identity-provider
// subject; the application never mints it.
type Customer struct {
	ID        int64
	Sub       string
	Name      string
	Email     string
	Addresses []Address
}
