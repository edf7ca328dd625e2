// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the demo phone login flow.
//
// There is no backend. A verification code is derived locally from the
// phone number itself: the number is stretched through scrypt into a TOTP
// secret, and the resulting one-time code is shown to the user in a
// notification instead of being sent over SMS. The fixed code "111111"
// is always accepted so the flow can be exercised without reading the
// notification.
//
// The logged-in profile (calling code + phone number) persists to
// userdata.json in the data directory; its presence is what makes the
// app skip the login screen on the next start.
package auth
