package project

type CreateProjectDTO struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Key         string  `json:"key,omitempty"` // derived from Name when empty
	Description *string `json:"description,omitempty"`
}

type UpdateProjectDTO struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Key         *string `json:"key,omitempty"`
	Description *string `json:"description,omitempty"`
}
