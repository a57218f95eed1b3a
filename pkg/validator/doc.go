// Package validator builds field validation from small rules.
//
//	err := validator.Apply(
//		validator.RequiredString("username", username),
//		validator.LenBetween("username", username, 3, 64),
//		validator.MinLenString("password", password, 6),
//	)
//
// Apply returns ValidationErrors listing every failed rule, or nil.
package validator
