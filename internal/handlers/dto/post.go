package dto

// PostPayload — тело нового поста
type PostPayload struct {
	Body string `json:"body" binding:"required,max=140"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	AboutMe  string `json:"about_me" binding:"omitempty,max=140"`
}
