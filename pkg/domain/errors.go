package domain

import "errors"

// ErrEmptyDataset is returned when a session is opened over a dataset with no items.
var ErrEmptyDataset = errors.New("empty dataset")

// ErrNotFound is returned when no annotation record is stored for an item ID.
var ErrNotFound = errors.New("annotation not found")

// ErrNoFocus is returned when a token is assigned while no slot is focused.
var ErrNoFocus = errors.New("no slot focused")

// ErrInvalidSlot is returned when a (row, slot) pair lies outside the triple grid.
var ErrInvalidSlot = errors.New("invalid slot")

// ErrTokenOutOfRange is returned when a TokenRef does not address a token of the current item.
var ErrTokenOutOfRange = errors.New("token out of range")

// ErrInvalidRecord is returned when a stored record does not match the annotation schema.
var ErrInvalidRecord = errors.New("invalid annotation record")
