package customers

type CreateCustomerRequest struct {
	Name    string   `json:"name" validate:"required,max=200"`
	Email   string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string   `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address string   `json:"address,omitempty" validate:"omitempty,max=500"`
	Tags    []string `json:"tags,omitempty" validate:"dive,max=50"`
	Notes   string   `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name     *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Email    *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string   `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address  *string   `json:"address,omitempty" validate:"omitempty,max=500"`
	Tags     *[]string `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
	Notes    *string   `json:"notes,omitempty"`
	Archived *bool     `json:"archived,omitempty"`
}

type ListCustomersRequest struct {
	Archived *bool  `json:"archived,omitempty"`
	Search   string `json:"search,omitempty"`
}
