// Copyright 2025 The Localnet Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

//go:build !windows

package node

import "golang.org/x/sys/unix"

// diskUsage returns the fraction of the volume that is free, and the free
// byte count.
func diskUsage(path string) (float64, uint64, error) {
	var stat unix.Statfs_t
	err := unix.Statfs(path, &stat)
	if err != nil {
		return 0, 0, err
	}

	free := uint64(stat.Bavail) * uint64(stat.Bsize)
	total := uint64(stat.Blocks) * uint64(stat.Bsize)
	if total == 0 {
		return 0, 0, nil
	}
	return float64(stat.Bavail) / float64(stat.Blocks), free, nil
}
