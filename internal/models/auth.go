package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the identity carried by access tokens issued by the identity provider.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	ClassName string   `json:"class_name,omitempty"`
	FullName  string   `json:"full_name"`
	jwt.RegisteredClaims
}
