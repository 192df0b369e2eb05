package dto

import "time"

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, message string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Message:   message,
		Timestamp: time.Now(),
	}
}

type AuthResponse struct {
	Ok          bool       `json:"ok"`
	AccessToken string     `json:"access_token"`
	User        GetUserDto `json:"user"`
}
