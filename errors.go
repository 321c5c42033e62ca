/*
 * errors.go, part of gomelt.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package melt

import (
	"fmt"
	"strings"
)

// ErrorKind classifies the failures of a descriptor computation. All of them
// are fatal for the molecule being processed.
type ErrorKind int

const (
	// MissingInput: an expected observable, temperature, residue or frame is absent.
	MissingInput ErrorKind = iota + 1
	// MalformedTimeSeries: the data doesn't match the declared schema.
	MalformedTimeSeries
	// InsufficientWindow: equilibration >= duration, or too few temperatures for a fit.
	InsufficientWindow
	// NumericInstability: NaN/Inf or out-of-domain values feeding a log or square root.
	NumericInstability
	// Configuration: invalid run-level settings.
	Configuration
)

func (k ErrorKind) String() string {
	switch k {
	case MissingInput:
		return "missing input"
	case MalformedTimeSeries:
		return "malformed time series"
	case InsufficientWindow:
		return "insufficient window"
	case NumericInstability:
		return "numeric instability"
	case Configuration:
		return "configuration error"
	}
	return "unknown error"
}

// Error is the error type of gomelt. Besides the kind and message, it carries
// a "decoration": the list of functions it went through on its way up.
type Error struct {
	kind    ErrorKind
	message string
	deco    []string
}

// Sentinels, to be used with errors.Is. They match any Error of the same kind.
var (
	ErrMissingInput        = &Error{kind: MissingInput}
	ErrMalformedTimeSeries = &Error{kind: MalformedTimeSeries}
	ErrInsufficientWindow  = &Error{kind: InsufficientWindow}
	ErrNumericInstability  = &Error{kind: NumericInstability}
	ErrConfiguration       = &Error{kind: Configuration}
)

// NewError returns a new Error of the given kind. caller is the name of the
// function where the error originated.
func NewError(kind ErrorKind, caller string, format string, a ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, a...), deco: []string{caller}}
}

func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("%s: %s", err.kind, err.message)
	}
	return fmt.Sprintf("%s: %s (%s)", err.kind, err.message, strings.Join(err.deco, " <- "))
}

// Kind returns the kind of the error.
func (err *Error) Kind() ErrorKind { return err.kind }

// Message returns the error message without kind or decoration.
func (err *Error) Message() string { return err.message }

// Decorate adds dec to the decoration of the error and returns the resulting slice.
// If dec is empty, it only returns the current decoration.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Is reports whether target is the sentinel for the kind of err.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.message == "" && t.kind == err.kind
}

// ErrDecorate decorates err with the caller's name, if err supports it, and returns it.
// Sentinels are never modified.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok && e.message == "" {
		return err
	}
	if d, ok := err.(Decorator); ok {
		d.Decorate(caller)
	}
	return err
}
