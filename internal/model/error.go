package model

import "errors"

var ErrorValidation = errors.New("validation failed")
var ErrorDuplicateUser = errors.New("email or username already in use")
var ErrorUserNotFound = errors.New("user not found")
var ErrorPostNotFound = errors.New("post not found")
var ErrorInvalidID = errors.New("invalid id")
var ErrorMissingToken = errors.New("access token required")
var ErrorInvalidSession = errors.New("invalid or expired session token")
var ErrorInvalidCredentials = errors.New("invalid email or password")
var ErrorEmailNotVerified = errors.New("email address not verified")
var ErrorForbidden = errors.New("forbidden")
var ErrorInvalidVerificationToken = errors.New("invalid verification token")
var ErrorInvalidOrExpiredToken = errors.New("invalid or expired token")
