package redisrepo

import "fmt"

const (
	USER_KEY        = "user:%s"        // <userID>
	RESET_TOKEN_KEY = "reset-token:%s" // <token digest>
)

func UserKey(userID string) string {
	return fmt.Sprintf(USER_KEY, userID)
}

func ResetTokenKey(digest string) string {
	return fmt.Sprintf(RESET_TOKEN_KEY, digest)
}
