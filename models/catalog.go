package models

// Module represents a purchasable line item in the quotation catalog.
// Price is expressed in whole local currency units (RD$).
type Module struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Price          int64   `json:"price"`
	Description    string  `json:"description"`
	Category       string  `json:"category,omitempty"`
	EstimatedHours float64 `json:"estimatedHours,omitempty"`
}

// ModuleInput represents the request body for creating or editing a module
// Example: {"name": "Landing Page", "price": 3500, "description": "Sección de inicio", "category": "Frontend"}
type ModuleInput struct {
	Name           string  `json:"name"`
	Price          int64   `json:"price"`
	Description    string  `json:"description"`
	Category       string  `json:"category,omitempty"`
	EstimatedHours float64 `json:"estimatedHours,omitempty"`
}

// ModuleSuggestion is a candidate module harvested from advisory content.
// It only becomes a Module once accepted.
type ModuleSuggestion struct {
	Name           string  `json:"name"`
	Price          int64   `json:"price"`
	Description    string  `json:"description"`
	Category       string  `json:"category,omitempty"`
	EstimatedHours float64 `json:"estimatedHours,omitempty"`
}

// Input converts the suggestion into a module input
func (s ModuleSuggestion) Input() ModuleInput {
	return ModuleInput{
		Name:           s.Name,
		Price:          s.Price,
		Description:    s.Description,
		Category:       s.Category,
		EstimatedHours: s.EstimatedHours,
	}
}
