package citizen

// RegisterRequest keeps the historical French field names of the API.
type RegisterRequest struct {
	Name     string `json:"nom" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"numero" binding:"required"`
}
