// Package credential holds the persisted credential record and the input
// normalization rules shared by signup and sign-in.
package credential

import (
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// Record is the single persisted credential. PasswordDigest is the output of
// a cryptox.Hasher, never the plaintext.
type Record struct {
	Username       string `json:"username"`
	PasswordDigest string `json:"password"`
}

// Validate reports whether r may be persisted: both fields must be set and
// the username must already be in canonical form.
func (r Record) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("%w: empty username", common.ErrValidation)
	}
	if Normalize(r.Username) != r.Username {
		return fmt.Errorf("%w: username is not normalized", common.ErrValidation)
	}
	if r.PasswordDigest == "" {
		return fmt.Errorf("%w: empty password digest", common.ErrValidation)
	}
	return nil
}
