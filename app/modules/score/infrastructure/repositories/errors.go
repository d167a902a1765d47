package scoredb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNoRowsAffected indicates an INSERT reported zero affected rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
