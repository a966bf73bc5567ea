package service

import "errors"

// Tasks errors
var (
	ErrTaskNotFound = errors.New("task not found")
)
