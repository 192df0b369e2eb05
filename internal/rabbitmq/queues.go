package rabbitmq

const (
	CONFIRMATION_MAIL_QUEUE   = "mail.confirmation"
	RESET_PASSWORD_MAIL_QUEUE = "mail.reset_password"
)
