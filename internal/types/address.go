package types

// Address is a billing or shipping address as collected at checkout
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// CustomerData is the known-customer payload returned by a lookup
type CustomerData struct {
	UserID        int64    `json:"user_id"`
	Email         string   `json:"email"`
	PointsBalance int64    `json:"points_balance"`
	Billing       *Address `json:"billing,omitempty"`
	Shipping      *Address `json:"shipping,omitempty"`
}
