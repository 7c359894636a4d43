package out

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	authout "rehab/internal/modules/auth/port/out"
)

// PromptFunc shows the user where to enter the device code.
type PromptFunc func(verificationURI, userCode string)

// GoogleDeviceFlow obtains a Google ID token with the OAuth 2.0 device
// authorization grant, which suits a terminal without a browser redirect.
type GoogleDeviceFlow struct {
	config *oauth2.Config
	prompt PromptFunc
}

func NewGoogleDeviceFlow(clientID, clientSecret string, prompt PromptFunc) authout.IdentityProvider {
	return &GoogleDeviceFlow{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		prompt: prompt,
	}
}

func (g *GoogleDeviceFlow) IDToken(ctx context.Context) (string, error) {
	if g.config.ClientID == "" {
		return "", fmt.Errorf("google client id is not configured")
	}
	auth, err := g.config.DeviceAuth(ctx)
	if err != nil {
		return "", fmt.Errorf("start device authorization: %w", err)
	}
	if g.prompt != nil {
		uri := auth.VerificationURIComplete
		if uri == "" {
			uri = auth.VerificationURI
		}
		g.prompt(uri, auth.UserCode)
	}
	tok, err := g.config.DeviceAccessToken(ctx, auth)
	if err != nil {
		return "", fmt.Errorf("wait for device authorization: %w", err)
	}
	idToken, ok := tok.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", fmt.Errorf("google response carried no id token")
	}
	return idToken, nil
}
