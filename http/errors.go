package http

import (
	"errors"

	"github.com/spotify/pyeos"
)

var ErrorDeprecated = &pyeos.Missing{BaseError: &pyeos.BaseError{
	Help: `The API endpoint requested appears to have been deprecated.

This indicates your client (pyeosctl) needs to be updated: please see

    https://github.com/spotify/pyeos/releases

If you still have this problem after upgrading, please file an issue at

    https://github.com/spotify/pyeos/issues

mentioning what you were attempting to do.
`,
	Err: errors.New("API endpoint deprecated"),
}}

var ErrorUnauthorized = &pyeos.UserConfigProblem{BaseError: &pyeos.BaseError{
	Help: `The request failed authentication

This most likely means you have a missing or incorrect token. Please
make sure you supply a token, either by setting the environment
variable PYEOS_TOKEN, or using the argument --token with pyeosctl.

`,
	Err: errors.New("request failed authentication"),
}}

func MakeAPINotFound(path string) *pyeos.Missing {
	return &pyeos.Missing{BaseError: &pyeos.BaseError{
		Help: `The API endpoint requested is not supported by this server.

This indicates that your client (probably pyeosctl) is either out of
date, or faulty. Please see

    https://github.com/spotify/pyeos/releases

for releases of pyeosctl.

If you still have problems, please file an issue at

    https://github.com/spotify/pyeos/issues

mentioning what you were attempting to do, and include this path:

    ` + path + `
`,
		Err: errors.New("API endpoint not found"),
	}}
}
