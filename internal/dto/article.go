package dto

type CreateArticleDto struct {
	Title       string `form:"title" json:"title" binding:"required,max=200"`
	Description string `form:"description" json:"description" binding:"required,max=5000"`
}

type UpdateArticleDto struct {
	Title       *string `form:"title" json:"title" binding:"omitempty,max=200"`
	Description *string `form:"description" json:"description" binding:"omitempty,max=5000"`
}
