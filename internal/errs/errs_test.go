// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errs

import (
	"fmt"
	"testing"
)

type testError struct{}

func (testError) Error() string { return "test" }

func TestIsA(t *testing.T) {
	testCases := map[string]struct {
		err      error
		expected bool
	}{
		"nil": {},
		"other": {
			err: fmt.Errorf("other"),
		},
		"top-level": {
			err:      testError{},
			expected: true,
		},
		"wrapped": {
			err:      fmt.Errorf("wrapped: %w", testError{}),
			expected: true,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase

		t.Run(name, func(t *testing.T) {
			if got := IsA[testError](testCase.err); got != testCase.expected {
				t.Errorf("got %t, expected %t", got, testCase.expected)
			}
		})
	}
}
