package rosterrepo

import "errors"

var (
	// ErrAlreadyExists indicates a member already exists with the provided ID.
	ErrAlreadyExists = errors.New("roster member already exists")

	// ErrInvalidMember indicates a member record is missing required fields.
	ErrInvalidMember = errors.New("invalid roster member")
)
