// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

//go:build tools
// +build tools

package localnetd

import (
	_ "golang.org/x/tools/cmd/goimports"
	_ "gotest.tools/gotestsum"
)
