// Package errors provides the sentinel errors of whisky stock operations.
package errors

import "errors"

var ErrWhiskyNotFound = errors.New("whisky not found")
var ErrWhiskyAlreadyRegistered = errors.New("whisky already registered")

// ErrWhiskyStockExceeded is returned when an adjustment would move the quantity outside [0, max].
var ErrWhiskyStockExceeded = errors.New("whisky stock capacity exceeded")

var ErrInvalidQuantity = errors.New("quantity must be greater than zero")
