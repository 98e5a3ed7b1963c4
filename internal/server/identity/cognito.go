// Package identity wraps the Cognito operations the user API depends on:
// sign-up, confirmation, password authentication, and a single-page user
// listing. Provider exceptions are translated into the sentinel errors from
// internal/common so callers can match causes with errors.Is.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"

	"github.com/dmarquez/usermirror/internal/common"
	"github.com/dmarquez/usermirror/internal/logging"
	"github.com/dmarquez/usermirror/internal/server/config"
)

// maxPoolPageSize is the largest page Cognito ListUsers accepts. Listing is
// single-page: pools larger than one page are truncated.
const maxPoolPageSize = 60

// CognitoAPI is the subset of the Cognito client used by the adapter.
// *cip.Client satisfies it; tests inject fakes.
type CognitoAPI interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	ListUsers(ctx context.Context, in *cip.ListUsersInput, optFns ...func(*cip.Options)) (*cip.ListUsersOutput, error)
}

type Adapter struct {
	api          CognitoAPI
	clientID     string
	clientSecret []byte
	userPoolID   string
	logger       logging.Logger
}

// NewAdapter builds the adapter from an already constructed Cognito client.
// The client secret is required: without it no SECRET_HASH can be derived and
// every provider call would fail.
func NewAdapter(api CognitoAPI, cfg *config.Config, logger logging.Logger) (*Adapter, error) {
	if cfg.CognitoClientSecret == "" {
		return nil, common.ErrMissingClientSecret
	}

	return &Adapter{
		api:          api,
		clientID:     cfg.CognitoClientID,
		clientSecret: []byte(cfg.CognitoClientSecret),
		userPoolID:   cfg.CognitoUserPoolID,
		logger:       logger.With("component", "identity"),
	}, nil
}

func (a *Adapter) secretHash(username string) (string, error) {
	return DeriveSecretHash(username, a.clientID, a.clientSecret)
}

// Register signs the user up with username=email and an email attribute.
func (a *Adapter) Register(ctx context.Context, email, password string) error {
	hash, err := a.secretHash(email)
	if err != nil {
		return err
	}

	_, err = a.api.SignUp(ctx, &cip.SignUpInput{
		ClientId:   aws.String(a.clientID),
		Username:   aws.String(email),
		Password:   aws.String(password),
		SecretHash: aws.String(hash),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		a.logger.Error(ctx, "sign-up failed", "email", email, "error", err)
		return translateSignUpError(err)
	}

	return nil
}

// Confirm submits the e-mailed confirmation code for an unconfirmed user.
func (a *Adapter) Confirm(ctx context.Context, username, code string) error {
	hash, err := a.secretHash(username)
	if err != nil {
		return err
	}

	_, err = a.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(a.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
		SecretHash:       aws.String(hash),
	})
	if err != nil {
		a.logger.Error(ctx, "confirmation failed", "username", username, "error", err)
		return translateConfirmError(err)
	}

	a.logger.Info(ctx, "user confirmed", "username", username)
	return nil
}

// Authenticate runs the USER_PASSWORD_AUTH flow. A completed call without an
// authentication result (the provider wants a further challenge) returns
// ok=false with a nil error; that is a valid terminal outcome, not a failure.
func (a *Adapter) Authenticate(ctx context.Context, username, password string) (token string, ok bool, err error) {
	hash, err := a.secretHash(username)
	if err != nil {
		return "", false, err
	}

	out, err := a.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(a.clientID),
		AuthParameters: map[string]string{
			"USERNAME":    username,
			"PASSWORD":    password,
			"SECRET_HASH": hash,
		},
	})
	if err != nil {
		return "", false, translateAuthError(err)
	}

	if out.AuthenticationResult == nil || out.AuthenticationResult.AccessToken == nil {
		return "", false, nil
	}

	return *out.AuthenticationResult.AccessToken, true, nil
}

// ListUsernames returns one page of usernames from the configured pool.
// The limit is clamped to the provider's page maximum.
func (a *Adapter) ListUsernames(ctx context.Context, limit int32) ([]string, error) {
	if limit <= 0 || limit > maxPoolPageSize {
		limit = maxPoolPageSize
	}

	out, err := a.api.ListUsers(ctx, &cip.ListUsersInput{
		UserPoolId: aws.String(a.userPoolID),
		Limit:      aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("listing pool users: %w", err)
	}

	usernames := make([]string, 0, len(out.Users))
	for _, u := range out.Users {
		if u.Username != nil {
			usernames = append(usernames, *u.Username)
		}
	}

	return usernames, nil
}

func translateSignUpError(err error) error {
	var (
		exists       *types.UsernameExistsException
		badPassword  *types.InvalidPasswordException
		badParameter *types.InvalidParameterException
	)
	switch {
	case errors.As(err, &exists):
		return fmt.Errorf("sign-up: %w", common.ErrDuplicateUser)
	case errors.As(err, &badPassword):
		return fmt.Errorf("sign-up: %w", common.ErrInvalidPassword)
	case errors.As(err, &badParameter):
		return fmt.Errorf("sign-up: %w", common.ErrInvalidParameter)
	}
	return wrapProviderError("sign-up", err)
}

func translateConfirmError(err error) error {
	var (
		mismatch *types.CodeMismatchException
		expired  *types.ExpiredCodeException
		notFound *types.UserNotFoundException
	)
	switch {
	case errors.As(err, &mismatch):
		return fmt.Errorf("confirm: %w", common.ErrCodeMismatch)
	case errors.As(err, &expired):
		return fmt.Errorf("confirm: %w", common.ErrCodeExpired)
	case errors.As(err, &notFound):
		return fmt.Errorf("confirm: %w", common.ErrUserNotFound)
	}
	return wrapProviderError("confirm", err)
}

func translateAuthError(err error) error {
	var (
		notAuthorized *types.NotAuthorizedException
		notConfirmed  *types.UserNotConfirmedException
		notFound      *types.UserNotFoundException
	)
	switch {
	case errors.As(err, &notAuthorized):
		return fmt.Errorf("auth: %w", common.ErrNotAuthorized)
	case errors.As(err, &notConfirmed):
		return fmt.Errorf("auth: %w", common.ErrUserNotConfirmed)
	case errors.As(err, &notFound):
		// do not leak which part of the credentials was wrong
		return fmt.Errorf("auth: %w", common.ErrNotAuthorized)
	}
	return wrapProviderError("auth", err)
}

// wrapProviderError keeps the provider's error code visible for anything the
// taxonomy does not name (throttling, transport, service faults).
func wrapProviderError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: provider error %s: %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
