// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	"encoding/json"
	"fmt"
)

// Status is a harness status code. Codes below 300 are success, codes in
// [400, 500) are caller errors, and codes of 500 and above are failures of
// the harness or the node process it drives.
type Status uint64

const (
	// OK means the operation succeeded.
	OK Status = 200

	// BadRequest means the request was invalid.
	BadRequest Status = 400
	// InvalidSeed means the test seed is missing or malformed.
	InvalidSeed Status = 401
	// InvalidAccount means the account identity is malformed.
	InvalidAccount Status = 402
	// NotInitialized means the fixture has not been initialized.
	NotInitialized Status = 404
	// FixtureLocked means another node is running against the fixture.
	FixtureLocked Status = 409

	// InternalError means the harness malfunctioned.
	InternalError Status = 500
	// UnknownError means the error is not otherwise classified.
	UnknownError Status = 501
	// StartFailure means the node process could not be started.
	StartFailure Status = 502
	// ProcessFailure means the node process ran and failed.
	ProcessFailure Status = 503
	// WriteFailure means the fixture directory could not be written.
	WriteFailure Status = 504
	// ExitedNonZero means the node exited with a non-zero code.
	ExitedNonZero Status = 505
)

// Success returns true if the status represents success.
func (s Status) Success() bool { return s < 300 }

// IsKnownError returns true if the status is non-zero and not UnknownError.
func (s Status) IsKnownError() bool { return s != 0 && s != UnknownError }

// IsClientError returns true if the status is a client error.
func (s Status) IsClientError() bool { return s >= 400 && s < 500 }

// IsServerError returns true if the status is a server error.
func (s Status) IsServerError() bool { return s >= 500 }

// Error implements error.
func (s Status) Error() string { return s.String() }

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case BadRequest:
		return "badRequest"
	case InvalidSeed:
		return "invalidSeed"
	case InvalidAccount:
		return "invalidAccount"
	case NotInitialized:
		return "notInitialized"
	case FixtureLocked:
		return "fixtureLocked"
	case InternalError:
		return "internalError"
	case UnknownError:
		return "unknownError"
	case StartFailure:
		return "startFailure"
	case ProcessFailure:
		return "processFailure"
	case WriteFailure:
		return "writeFailure"
	case ExitedNonZero:
		return "exitedNonZero"
	default:
		return fmt.Sprintf("Status:%d", uint64(s))
	}
}

// StatusByName returns the status with the given name, or zero.
func StatusByName(name string) (Status, bool) {
	switch name {
	case "ok":
		return OK, true
	case "badRequest":
		return BadRequest, true
	case "invalidSeed":
		return InvalidSeed, true
	case "invalidAccount":
		return InvalidAccount, true
	case "notInitialized":
		return NotInitialized, true
	case "fixtureLocked":
		return FixtureLocked, true
	case "internalError":
		return InternalError, true
	case "unknownError":
		return UnknownError, true
	case "startFailure":
		return StartFailure, true
	case "processFailure":
		return ProcessFailure, true
	case "writeFailure":
		return WriteFailure, true
	case "exitedNonZero":
		return ExitedNonZero, true
	default:
		return 0, false
	}
}

// MarshalJSON marshals the status as a string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON unmarshals the status from a string or a number.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if v, ok := StatusByName(str); ok {
			*s = v
			return nil
		}
		return fmt.Errorf("%q is not a valid status", str)
	}

	var num uint64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = Status(num)
	return nil
}
