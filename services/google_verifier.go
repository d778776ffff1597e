package services

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier validates Google ID tokens against the configured
// OAuth client id. Returns nil when no client id is configured, which
// disables the /auth/google endpoint.
func NewGoogleVerifier(clientID string) GoogleTokenVerifier {
	if clientID == "" {
		return nil
	}
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, token string) (*GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, err
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google token is missing the email claim")
	}

	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &GoogleUser{Email: email, Name: name, Picture: picture}, nil
}
