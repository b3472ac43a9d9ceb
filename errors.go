package tabs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadRequest marks a malformed read request or resample directive. It is
// a usage error, distinct from a well-formed request that matches no data.
var ErrBadRequest = errors.New("bad request")

// NoDataError is the absent-result value of Read: the requested stations and
// time range produced zero observations upstream. The diagnostic records
// what was tried per station; callers decide whether to log it, surface it,
// or treat it as fatal.
type NoDataError struct {
	Stations   []string
	Diagnostic string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data for %s: %s",
		strings.Join(e.Stations, ", "), e.Diagnostic)
}

// IsNoData reports whether err is the absent-result condition.
func IsNoData(err error) bool {
	var nd *NoDataError
	return errors.As(err, &nd)
}
