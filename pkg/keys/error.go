package keys

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrMalformedInput is returned when an encoded value has the wrong
	// length or carries an out of range header byte.
	ErrMalformedInput = ErrorKind("ErrMalformedInput")

	// ErrInvalidPoint is returned when a point is not on the curve or can
	// not be decoded.
	ErrInvalidPoint = ErrorKind("ErrInvalidPoint")

	// ErrInfinitePoint is returned when an operation produces or is handed
	// the point at infinity where it is not allowed.
	ErrInfinitePoint = ErrorKind("ErrInfinitePoint")

	// ErrOutOfFieldRange is returned when a recovery candidate x coordinate
	// r + i*N is not less than the field prime.
	ErrOutOfFieldRange = ErrorKind("ErrOutOfFieldRange")

	// ErrCofactorCheckFailed is returned when a recovery candidate point is
	// not in the prime order subgroup.
	ErrCofactorCheckFailed = ErrorKind("ErrCofactorCheckFailed")

	// ErrRecoveryIndexNotFound is returned when none of the four recovery
	// indices reproduces the signing key.
	ErrRecoveryIndexNotFound = ErrorKind("ErrRecoveryIndexNotFound")

	// ErrMalformedSignature is returned when a signature component is zero
	// or not less than the group order.
	ErrMalformedSignature = ErrorKind("ErrMalformedSignature")

	// ErrSigningBackend is returned when the ECDSA backend fails to produce
	// a signature.
	ErrSigningBackend = ErrorKind("ErrSigningBackend")

	// ErrDerivation is returned when a key derivation step fails inside the
	// backend, such as when no randomness is available.
	ErrDerivation = ErrorKind("ErrDerivation")

	// ErrInvalidPrivateKey is returned when a secret is not 32 bytes or is
	// not in [1, N-1].
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidDER is returned when a DER encoded private key can not be
	// parsed or its embedded public key does not match the secret.
	ErrInvalidDER = ErrorKind("ErrInvalidDER")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to key material, signatures or points.
// It has full support for errors.Is and errors.As, so the caller can
// ascertain the specific reason for the error by checking the underlying
// error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// MakeError creates an Error given a set of arguments.
func MakeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
