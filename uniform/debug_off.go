//go:build !debug

package uniform

const debug = false
