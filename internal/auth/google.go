package auth

import (
	"context"
	"fmt"

	"github.com/princess2wilson/RESUMATE-sub000/config"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

type GoogleStrategy struct {
	DB *gorm.DB
}

func GoogleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.GOOGLE_REDIRECT_URL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func (s *GoogleStrategy) Name() string { return "google" }

func (s *GoogleStrategy) Attempt(ctx context.Context, creds Credentials) (users.User, error) {
	tok, err := GoogleOAuthConfig().Exchange(ctx, creds.Code)
	if err != nil {
		return users.User{}, fmt.Errorf("%w: code exchange failed", ErrProviderUnavailable)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return users.User{}, fmt.Errorf("%w: missing id_token", ErrProviderUnavailable)
	}

	claims, err := verifyGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		return users.User{}, err
	}

	return s.findOrCreateUser(ctx, claims)
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

func verifyGoogleIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to init google oidc provider", ErrProviderUnavailable)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.GOOGLE_CLIENT_ID,
	})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id_token", ErrProviderUnavailable)
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: failed to decode token claims", ErrProviderUnavailable)
	}

	if claims.Email == "" || claims.Sub == "" {
		return nil, fmt.Errorf("%w: token missing required claims", ErrProviderUnavailable)
	}

	return &claims, nil
}

func (s *GoogleStrategy) findOrCreateUser(ctx context.Context, gc *googleIDClaims) (users.User, error) {
	db := s.DB.WithContext(ctx)

	var user users.User

	// 1) Try by google_sub
	if err := db.Where("google_sub = ?", gc.Sub).First(&user).Error; err == nil {
		return user, nil
	}

	// 2) Try by email, then link google_sub if missing
	if err := db.Where("email = ?", gc.Email).First(&user).Error; err == nil {
		if user.GoogleSub == nil {
			sub := gc.Sub
			user.GoogleSub = &sub
			user.AuthProvider = "google"
			if err := db.Save(&user).Error; err != nil {
				return users.User{}, err
			}
		}
		return user, nil
	}

	// 3) Create new user
	sub := gc.Sub
	user = users.User{
		Email:        gc.Email,
		FirstName:    firstNonEmpty(gc.GivenName, gc.Name),
		Password:     placeholderPassword(),
		AuthProvider: "google",
		GoogleSub:    &sub,
	}

	if err := db.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
