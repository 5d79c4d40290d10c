package dto

type CreateGroupDTO struct {
	Name string `json:"name" binding:"required"`
}

type UpdateGroupDTO struct {
	Name string `json:"name" binding:"required"`
}
