// README: Firebase ID-token checks that decide whether a caller's trips are saved.
package infra

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseToken is a verified caller. Only UID is used to key saved trips.
type FirebaseToken struct {
	UID    string
	Claims map[string]interface{}
}

// TokenVerifier checks a bearer token. A rejected token makes the caller anonymous;
// it never fails the request.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error)
}

var errEmptyUID = errors.New("firebase: token has no uid")

type idTokenVerifier struct {
	auth *auth.Client
}

// NewFirebaseVerifier connects to the Firebase project that signs the planner's
// sign-in tokens. credentialsFile may be empty to use application-default credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase: project id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init project %s: %w", projectID, err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client for %s: %w", projectID, err)
	}
	return &idTokenVerifier{auth: client}, nil
}

func (v *idTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error) {
	token, err := v.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("firebase: verify id token: %w", err)
	}
	if token.UID == "" {
		return nil, errEmptyUID
	}
	return &FirebaseToken{UID: token.UID, Claims: token.Claims}, nil
}
