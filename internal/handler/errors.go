package handler

import "errors"

var (
	errNotAuthorized = errors.New("user is not authorized")
	errInvalidID     = errors.New("provided an invalid ID")
	errMissingImage  = errors.New("please provide an image file")
	errImageTooLarge = errors.New("image exceeds the 10 MB limit")
)
