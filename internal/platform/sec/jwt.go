// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer through small consumer-side interfaces.
//
// Two token families are issued with the same RS256 key pair:
//
//   - Access tokens carry [AuthClaims] and authenticate members and admins.
//   - Reset tokens carry [ResetClaims] and may only confirm one password reset.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrWrongPurpose is returned when a token is presented to the wrong flow.
var ErrWrongPurpose = errors.New("sec: token purpose mismatch")

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// The UserID, Email and Role travel inside the token so [middleware.Authenticate]
// can rebuild the caller without a database round trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string   `json:"uid"`
	Email  string   `json:"eml"`
	Role   UserRole `json:"rol"`
}

// ResetClaims is the payload of a password reset token.
//
// The JWT ID is the pending reset's session ID, so the token is only as
// good as the session behind it.
type ResetClaims struct {
	jwt.RegisteredClaims

	UserID  string `json:"uid"`
	Purpose string `json:"pur"`
}

// SessionID returns the pending reset the token points at.
func (c *ResetClaims) SessionID() string { return c.ID }

// TokenService handles generation and verification of JWT tokens using RS256.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService creates a new TokenService.
// It reads RSA keys from the provided filesystem paths.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

// NewTokenServiceFromKeys builds a TokenService from already parsed keys.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}
}

// # Access Tokens

// GenerateAccessToken creates a new JWT access token for a member or admin.
func (service *TokenService) GenerateAccessToken(userID, email string, role UserRole, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	return service.sign(claims)
}

// VerifyToken checks the signature and validity of an access token.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if err := service.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, fmt.Errorf("sec: invalid token claims")
	}
	return claims, nil
}

// # Reset Tokens

// GenerateResetToken signs a token bound to one pending reset session.
func (service *TokenService) GenerateResetToken(sessionID, userID, purpose string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:  userID,
		Purpose: purpose,
	}

	return service.sign(claims)
}

// VerifyResetToken checks the signature, expiry and purpose of a reset token.
func (service *TokenService) VerifyResetToken(tokenString, purpose string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := service.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != purpose || claims.ID == "" {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// # Internals

func (service *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

func (service *TokenService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		return fmt.Errorf("sec: invalid token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("sec: invalid token claims")
	}
	return nil
}
