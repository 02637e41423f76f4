package app

import (
	"github.com/church-livestream/cls/internal/ports"
)

var ErrNotFound = ports.ErrNotFound

// Codes stables renvoyés aux clients HTTP et CLI.
const (
	CodeInvalidJSON        = "invalid_json"
	CodeUpdatesDisabled    = "updates_disabled"
	CodeRepoMissing        = "repo_missing"
	CodeReleaseUnavailable = "release_unavailable"
)

// CodedError porte un code d'erreur stable à côté du message.
type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }
