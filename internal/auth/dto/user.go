package dto

type UserOutput struct {
	Email string `json:"email"`
}
