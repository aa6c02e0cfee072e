package dto

type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusProcessing OrderStatus = "processing"
	StatusComplete   OrderStatus = "complete"
)

// PatientInfo holds the fields recovered from an intake document.
// A nil field means the extractor found no match for it; a set field
// is always non-empty, with DOB in canonical YYYY-MM-DD form.
type PatientInfo struct {
	FirstName *string `json:"patient_first_name"`
	LastName  *string `json:"patient_last_name"`
	DOB       *string `json:"dob"`
}

// Empty reports whether no field was extracted at all.
func (p PatientInfo) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.DOB == nil
}

// Order is a stored patient order record.
type Order struct {
	ID               string      `json:"id"`
	PatientFirstName string      `json:"patient_first_name"`
	PatientLastName  string      `json:"patient_last_name"`
	DOB              *string     `json:"dob"`
	Status           OrderStatus `json:"status"`
	CreatedAt        string      `json:"created_at"`
	UpdatedAt        string      `json:"updated_at"`
}
