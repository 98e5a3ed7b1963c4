// Package users composes the identity provider and the record store into the
// user flows: two-step registration with mirroring, confirmation,
// authentication, and the two independent listings.
package users

import (
	"context"
	"fmt"

	"github.com/dmarquez/usermirror/internal/common"
	"github.com/dmarquez/usermirror/internal/logging"
	"github.com/dmarquez/usermirror/internal/server/config"
)

// IdentityProvider is what the service needs from the Cognito adapter.
type IdentityProvider interface {
	Register(ctx context.Context, email, password string) error
	Confirm(ctx context.Context, username, code string) error
	Authenticate(ctx context.Context, username, password string) (token string, ok bool, err error)
	ListUsernames(ctx context.Context, limit int32) ([]string, error)
}

// RecordStore is what the service needs from the DynamoDB mirror.
type RecordStore interface {
	Put(ctx context.Context, id, email string) error
	ScanAll(ctx context.Context) ([]User, error)
	EnsureTable(ctx context.Context) error
}

// Service holds only long-lived references; all state lives in the two
// external services. Nothing here retries: every failure goes straight back
// to the caller.
type Service struct {
	idp    IdentityProvider
	store  RecordStore
	mirror bool
	logger logging.Logger
}

func NewService(idp IdentityProvider, store RecordStore, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		idp:    idp,
		store:  store,
		mirror: cfg.MirrorWrites,
		logger: logger.With("component", "users"),
	}
}

// Register signs the user up with the identity provider and mirrors the
// record into the store. There is no rollback: if the mirror write fails the
// provider-side user stays, the returned Registration is in StateUnmirrored,
// and the error matches common.ErrMirrorPending so the gap is distinguishable
// from every other failure. Re-running the mirror write is the repair.
func (s *Service) Register(ctx context.Context, email, password string) (*Registration, error) {
	if err := s.idp.Register(ctx, email, password); err != nil {
		return nil, err
	}

	if !s.mirror {
		return &Registration{Email: email, State: StateRegistered}, nil
	}

	if err := s.store.Put(ctx, email, email); err != nil {
		s.logger.Error(ctx, "mirror write failed after successful sign-up", "email", email, "error", err)
		return &Registration{Email: email, State: StateUnmirrored},
			fmt.Errorf("mirroring user %q: %w", email, common.ErrMirrorPending)
	}

	s.logger.Info(ctx, "user registered", "email", email)
	return &Registration{Email: email, State: StateMirrored}, nil
}

// Confirm passes the confirmation code through to the provider. Code format
// validation, if any, belongs to the boundary layer.
func (s *Service) Confirm(ctx context.Context, email, code string) error {
	return s.idp.Confirm(ctx, email, code)
}

// Authenticate passes through to the provider, keeping its option-of-token
// semantics: ok=false with a nil error means the provider finished without
// issuing a token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, bool, error) {
	return s.idp.Authenticate(ctx, email, password)
}

// ListMirrored reads the record store. The result may lag behind the
// provider when a registration was left unmirrored.
func (s *Service) ListMirrored(ctx context.Context) ([]User, error) {
	return s.store.ScanAll(ctx)
}

// ListPool reads one page of usernames from the identity provider.
func (s *Service) ListPool(ctx context.Context, limit int32) ([]string, error) {
	return s.idp.ListUsernames(ctx, limit)
}

// EnsureMirror prepares the record store. Called once at startup.
func (s *Service) EnsureMirror(ctx context.Context) error {
	if !s.mirror {
		return nil
	}
	return s.store.EnsureTable(ctx)
}
