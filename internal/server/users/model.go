package users

// User is the mirrored record of a registered user. The e-mail address is the
// canonical identifier: it is the Cognito username and the record-store key,
// so the two stores cannot disagree about who a record belongs to.
type User struct {
	Email string `json:"email"`
}

// RegistrationState describes how far a two-step registration got.
type RegistrationState string

const (
	// StateRegistered: the identity provider accepted the sign-up and
	// mirroring is disabled.
	StateRegistered RegistrationState = "registered"

	// StateMirrored: sign-up and mirror write both succeeded.
	StateMirrored RegistrationState = "mirrored"

	// StateUnmirrored: sign-up succeeded but the mirror write failed. The
	// user exists in the provider and is missing from the record store until
	// the write is repeated.
	StateUnmirrored RegistrationState = "registered-unmirrored"
)

// Registration is the outcome of a register call. It survives alongside the
// returned error so a failed mirror write still reports how far it got.
type Registration struct {
	Email string
	State RegistrationState
}
