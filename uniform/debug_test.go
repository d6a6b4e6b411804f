//go:build debug

package uniform_test

const isDebug = true
