//go:build debug

package uniform

// debug enables the post-uniform check by default and turns programming
// errors such as use after [Binder.Release] into panics.
const debug = true
