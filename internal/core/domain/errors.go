package domain

import "errors"

var (
	ErrDeliveryNotFound   = errors.New("delivery not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCourierRequired    = errors.New("courier id required to accept a delivery")
	ErrLandmarkNotFound   = errors.New("landmark not found")
	ErrStateNotFound      = errors.New("stored state not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrUnknownGateway     = errors.New("unknown payment gateway")
)
