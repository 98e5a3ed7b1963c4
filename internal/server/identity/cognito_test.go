package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarquez/usermirror/internal/common"
	"github.com/dmarquez/usermirror/internal/logging"
	"github.com/dmarquez/usermirror/internal/server/config"
)

// --- helpers ---

type fakeCognito struct {
	signUpIn  *cip.SignUpInput
	signUpErr error

	confirmIn  *cip.ConfirmSignUpInput
	confirmErr error

	authIn  *cip.InitiateAuthInput
	authOut *cip.InitiateAuthOutput
	authErr error

	listIn  *cip.ListUsersInput
	listOut *cip.ListUsersOutput
	listErr error
}

func (f *fakeCognito) SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	f.signUpIn = in
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &cip.SignUpOutput{}, nil
}

func (f *fakeCognito) ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	f.confirmIn = in
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &cip.ConfirmSignUpOutput{}, nil
}

func (f *fakeCognito) InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.authIn = in
	if f.authErr != nil {
		return nil, f.authErr
	}
	if f.authOut != nil {
		return f.authOut, nil
	}
	return &cip.InitiateAuthOutput{}, nil
}

func (f *fakeCognito) ListUsers(ctx context.Context, in *cip.ListUsersInput, optFns ...func(*cip.Options)) (*cip.ListUsersOutput, error) {
	f.listIn = in
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listOut != nil {
		return f.listOut, nil
	}
	return &cip.ListUsersOutput{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		CognitoClientID:     "client-id",
		CognitoClientSecret: "client-secret",
		CognitoUserPoolID:   "us-east-1_TestPool",
	}
}

func newTestAdapter(t *testing.T, api CognitoAPI) *Adapter {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	a, err := NewAdapter(api, testConfig(), logger)
	require.NoError(t, err)
	return a
}

// --- tests ---

func TestNewAdapter_RequiresClientSecret(t *testing.T) {
	cfg := testConfig()
	cfg.CognitoClientSecret = ""
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	_, err := NewAdapter(&fakeCognito{}, cfg, logger)
	assert.ErrorIs(t, err, common.ErrMissingClientSecret)
}

func TestRegister_SendsSecretHashAndEmailAttribute(t *testing.T) {
	fake := &fakeCognito{}
	a := newTestAdapter(t, fake)

	err := a.Register(context.Background(), "a@example.com", "pw123456")
	require.NoError(t, err)

	in := fake.signUpIn
	require.NotNil(t, in)
	assert.Equal(t, "client-id", aws.ToString(in.ClientId))
	assert.Equal(t, "a@example.com", aws.ToString(in.Username))
	assert.Equal(t, "pw123456", aws.ToString(in.Password))

	wantHash, err := DeriveSecretHash("a@example.com", "client-id", []byte("client-secret"))
	require.NoError(t, err)
	assert.Equal(t, wantHash, aws.ToString(in.SecretHash))

	require.Len(t, in.UserAttributes, 1)
	assert.Equal(t, "email", aws.ToString(in.UserAttributes[0].Name))
	assert.Equal(t, "a@example.com", aws.ToString(in.UserAttributes[0].Value))
}

func TestRegister_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name    string
		sdkErr  error
		wantErr error
	}{
		{name: "duplicate", sdkErr: &types.UsernameExistsException{Message: aws.String("exists")}, wantErr: common.ErrDuplicateUser},
		{name: "invalid password", sdkErr: &types.InvalidPasswordException{Message: aws.String("weak")}, wantErr: common.ErrInvalidPassword},
		{name: "invalid parameter", sdkErr: &types.InvalidParameterException{Message: aws.String("bad")}, wantErr: common.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, &fakeCognito{signUpErr: tt.sdkErr})
			err := a.Register(context.Background(), "a@example.com", "pw123456")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister_TransportErrorPassesThrough(t *testing.T) {
	transport := errors.New("connection reset")
	a := newTestAdapter(t, &fakeCognito{signUpErr: transport})

	err := a.Register(context.Background(), "a@example.com", "pw123456")
	assert.ErrorIs(t, err, transport)
}

func TestConfirm_SendsSecretHash(t *testing.T) {
	fake := &fakeCognito{}
	a := newTestAdapter(t, fake)

	err := a.Confirm(context.Background(), "a@example.com", "123456")
	require.NoError(t, err)

	in := fake.confirmIn
	require.NotNil(t, in)
	assert.Equal(t, "a@example.com", aws.ToString(in.Username))
	assert.Equal(t, "123456", aws.ToString(in.ConfirmationCode))
	assert.NotEmpty(t, aws.ToString(in.SecretHash))
}

func TestConfirm_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name    string
		sdkErr  error
		wantErr error
	}{
		{name: "code mismatch", sdkErr: &types.CodeMismatchException{Message: aws.String("nope")}, wantErr: common.ErrCodeMismatch},
		{name: "code expired", sdkErr: &types.ExpiredCodeException{Message: aws.String("old")}, wantErr: common.ErrCodeExpired},
		{name: "unknown user", sdkErr: &types.UserNotFoundException{Message: aws.String("who")}, wantErr: common.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, &fakeCognito{confirmErr: tt.sdkErr})
			err := a.Confirm(context.Background(), "a@example.com", "123456")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthenticate_ReturnsAccessToken(t *testing.T) {
	fake := &fakeCognito{
		authOut: &cip.InitiateAuthOutput{
			AuthenticationResult: &types.AuthenticationResultType{
				AccessToken: aws.String("token-123"),
			},
		},
	}
	a := newTestAdapter(t, fake)

	token, ok, err := a.Authenticate(context.Background(), "user1", "pw123456")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token-123", token)

	in := fake.authIn
	require.NotNil(t, in)
	assert.Equal(t, types.AuthFlowTypeUserPasswordAuth, in.AuthFlow)
	assert.Equal(t, "user1", in.AuthParameters["USERNAME"])
	assert.Equal(t, "pw123456", in.AuthParameters["PASSWORD"])
	assert.NotEmpty(t, in.AuthParameters["SECRET_HASH"])
}

func TestAuthenticate_NoResultIsNotAnError(t *testing.T) {
	a := newTestAdapter(t, &fakeCognito{authOut: &cip.InitiateAuthOutput{}})

	token, ok, err := a.Authenticate(context.Background(), "user1", "pw123456")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestAuthenticate_WrongPasswordIsAuthFailure(t *testing.T) {
	a := newTestAdapter(t, &fakeCognito{
		authErr: &types.NotAuthorizedException{Message: aws.String("Incorrect username or password.")},
	})

	_, ok, err := a.Authenticate(context.Background(), "user1", "wrongpass")
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)
}

func TestAuthenticate_UnconfirmedUser(t *testing.T) {
	a := newTestAdapter(t, &fakeCognito{
		authErr: &types.UserNotConfirmedException{Message: aws.String("not confirmed")},
	})

	_, _, err := a.Authenticate(context.Background(), "user1", "pw123456")
	assert.ErrorIs(t, err, common.ErrUserNotConfirmed)
}

func TestAuthenticate_UnknownUserMapsToAuthFailure(t *testing.T) {
	a := newTestAdapter(t, &fakeCognito{
		authErr: &types.UserNotFoundException{Message: aws.String("who")},
	})

	_, _, err := a.Authenticate(context.Background(), "ghost", "pw123456")
	assert.ErrorIs(t, err, common.ErrNotAuthorized)
}

func TestListUsernames(t *testing.T) {
	fake := &fakeCognito{
		listOut: &cip.ListUsersOutput{
			Users: []types.UserType{
				{Username: aws.String("u1")},
				{Username: nil},
				{Username: aws.String("u2")},
			},
		},
	}
	a := newTestAdapter(t, fake)

	names, err := a.ListUsernames(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, names)

	assert.Equal(t, "us-east-1_TestPool", aws.ToString(fake.listIn.UserPoolId))
	assert.Equal(t, int32(10), aws.ToInt32(fake.listIn.Limit))
}

func TestListUsernames_ClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int32
		want  int32
	}{
		{name: "zero", limit: 0, want: 60},
		{name: "negative", limit: -5, want: 60},
		{name: "over provider max", limit: 500, want: 60},
		{name: "in range", limit: 25, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCognito{}
			a := newTestAdapter(t, fake)

			_, err := a.ListUsernames(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, aws.ToInt32(fake.listIn.Limit))
		})
	}
}
