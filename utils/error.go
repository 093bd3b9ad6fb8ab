package utils

import "errors"

// ErrorRecordNotFound is the tenant-scoped miss: the row either does not
// exist or belongs to another business. Handlers map it to a 404.
var ErrorRecordNotFound = errors.New("record not found")
