package user

type CreateUserDTO struct {
	Username   string  `json:"username" binding:"required,min=3,max=50" example:"johndoe"`
	Email      string  `json:"email" binding:"required,email" example:"user@example.com"`
	FullName   string  `json:"full_name" binding:"required,max=100" example:"John Doe"`
	Role       Role    `json:"role,omitempty" example:"Developer"`
	JobTitle   *string `json:"job_title,omitempty"`
	Department *string `json:"department,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Location   *string `json:"location,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	ManagerID  *uint   `json:"manager_id,omitempty"`
}

type UpdateUserDTO struct {
	Email      *string `json:"email,omitempty" binding:"omitempty,email" example:"user@example.com"`
	FullName   *string `json:"full_name,omitempty" binding:"omitempty,max=100" example:"John Doe"`
	Role       *Role   `json:"role,omitempty" example:"Manager"`
	JobTitle   *string `json:"job_title,omitempty"`
	Department *string `json:"department,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Location   *string `json:"location,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	ManagerID  *uint   `json:"manager_id,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}
