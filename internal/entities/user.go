package entities

// Intern is a registered program participant, keyed by normalized phone.
type Intern struct {
	Phone         string `json:"phone" yaml:"phone" validate:"required"`
	Name          string `json:"name" yaml:"name" validate:"required"`
	DestinationID string `json:"destination_id" yaml:"destination_id" validate:"required"`
	StartDate     string `json:"start_date" yaml:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// Admin is the dashboard operator allowed to use the admin API.
type Admin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}
