package dto

type CreatePostDto struct {
	Title       string `form:"title" json:"title" binding:"required,max=200"`
	Topic       string `form:"topic" json:"topic" binding:"required,max=100"`
	Description string `form:"description" json:"description" binding:"required,max=5000"`
	IsAnonymous bool   `form:"is_anonymous" json:"is_anonymous"`
}

type UpdatePostDto struct {
	Title       *string `form:"title" json:"title" binding:"omitempty,max=200"`
	Topic       *string `form:"topic" json:"topic" binding:"omitempty,max=100"`
	Description *string `form:"description" json:"description" binding:"omitempty,max=5000"`
	IsAnonymous *bool   `form:"is_anonymous" json:"is_anonymous"`
}

type PostFilterDto struct {
	PageOptions
	Following bool   `form:"following"`
	Suggested bool   `form:"suggested"`
	UserID    string `form:"userId"`
	Search    string `form:"search"`
}
