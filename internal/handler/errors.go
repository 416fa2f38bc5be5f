// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated means neither the capsule API nor the health
// endpoint has an address to serve on.
var errNoHandlersAreCreated = errors.New("no handlers are created")
