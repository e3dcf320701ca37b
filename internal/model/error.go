package model

import "errors"

var ErrorInvalidEmailOrPassword = errors.New("invalid email or password")
var ErrorNotFound = errors.New("not found")
var ErrorAlreadyVerified = errors.New("email is already registered and verified")
var ErrorNotVerified = errors.New("email is not verified")
var ErrorInvalidOrExpiredCode = errors.New("invalid or expired code")
var ErrorDeliveryFailed = errors.New("delivery failed")
var ErrorForbidden = errors.New("forbidden")
var ErrorUnauthenticated = errors.New("authentication required")
