// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package node

import (
	"encoding/json"
	"reflect"
	"time"

	"gitlab.com/nearlocal/localnetd/pkg/errors"
)

// Duration is a time.Duration that marshals as a string such as "10s".
// Plain numbers are accepted and interpreted as seconds.
type Duration time.Duration

func (d Duration) Get() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return errors.BadRequest.WithFormat("%q is not a valid duration", s)
		}
		*d = Duration(v)
		return nil
	}

	var sec float64
	if err := json.Unmarshal(data, &sec); err != nil {
		return err
	}
	*d = Duration(sec * float64(time.Second))
	return nil
}

func setDefaultPtr[V any](ptr **V, def V) V {
	if *ptr == nil {
		*ptr = &def
	}
	return **ptr
}

func setDefaultVal[V any](ptr *V, def V) {
	if reflect.ValueOf(ptr).Elem().IsZero() {
		*ptr = def
	}
}
