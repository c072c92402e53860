package api

import "errors"

// ErrBadRequest marks query or body input the handlers reject before
// reaching the service.
var ErrBadRequest = errors.New("bad request")
