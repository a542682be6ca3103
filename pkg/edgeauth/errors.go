package edgeauth

import (
	"errors"
	"fmt"

	"github.com/joeydtaylor/steeze-edge/pkg/jwks"
)

var (
	// ErrMissingToken means no usable token cookie was present.
	ErrMissingToken = errors.New("edgeauth: missing token")
	// ErrVerification covers every reason a present token is rejected.
	ErrVerification = errors.New("edgeauth: token verification failed")
	// ErrMalformedEvent means an inbound event could not be decoded.
	ErrMalformedEvent = errors.New("edgeauth: malformed event")

	errNoRequest = errors.New("no request record")
	errNoURI     = errors.New("request has no uri")
)

func wrapMalformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
}

// IsInfrastructure reports whether err is a key-set fetch or parse failure,
// as opposed to an authentication outcome.
func IsInfrastructure(err error) bool {
	var fe *jwks.FetchError
	var pe *jwks.ParseError
	return errors.As(err, &fe) || errors.As(err, &pe)
}
