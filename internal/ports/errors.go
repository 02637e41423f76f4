package ports

import "errors"

var ErrNotFound = errors.New("not found")

// ErrQuotaExceeded: quota journalier de l'API amont épuisé.
var ErrQuotaExceeded = errors.New("quota exceeded")

// ErrUpstream: l'API amont a répondu avec une erreur (corps d'erreur ou statut non-2xx).
var ErrUpstream = errors.New("upstream api error")
