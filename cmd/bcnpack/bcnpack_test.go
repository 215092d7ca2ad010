// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"
)

func TestInsertSuffix(tt *testing.T) {
	testCases := []struct {
		path, want string
	}{
		{"out.dds", "out.ya.dds"},
		{"out.dds.zst", "out.ya.dds.zst"},
		{"dir.d/out.ktx", "dir.d/out.ya.ktx"},
		{"out", "out.ya"},
		{".hidden", ".hidden.ya"},
	}

	for _, tc := range testCases {
		if got := insertSuffix(tc.path, ".ya"); got != tc.want {
			tt.Errorf("tc=%q: got %q, want %q", tc.path, got, tc.want)
		}
	}
}
