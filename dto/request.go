package dto

// CreateOrderRequest is the payload for POST /api/orders.
// Missing fields default to empty strings and status "new".
type CreateOrderRequest struct {
	PatientFirstName string      `json:"patient_first_name"`
	PatientLastName  string      `json:"patient_last_name"`
	DOB              *string     `json:"dob"`
	Status           OrderStatus `json:"status"`
}

// UpdateOrderRequest is the payload for PUT /api/orders/:id.
// Nil fields leave the stored value untouched.
type UpdateOrderRequest struct {
	PatientFirstName *string      `json:"patient_first_name"`
	PatientLastName  *string      `json:"patient_last_name"`
	DOB              *string      `json:"dob"`
	Status           *OrderStatus `json:"status"`
}
