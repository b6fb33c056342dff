// Package handler binds typed handler functions to routes.
//
// A handler declares what it needs through extractors: FromRequest values
// build an argument from the parsed request (JSON, Raw, Multipart, Text) and
// FromContext values build one from the per-request Context (Accounts,
// Sessions, Tasks, Files, Self, CurrentSession, CurrentAccount, Both). The
// Wrap, WrapRequest, WrapDeps and WrapRequestDeps builders combine extractors
// with a function once, at registration time, into an Endpoint:
//
//	type loginInput struct {
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	ep := handler.WrapRequestDeps(
//		handler.JSON[loginInput](),
//		handler.Accounts(),
//		func(ctx *handler.Context, in loginInput, accounts store.Repository[account.Account]) handler.Response {
//			a, err := accounts.Get(ctx, store.By("email", in.Email))
//			return handler.Result(handler.JSON(a.View()), err)
//		},
//	)
//
// Any extraction failure becomes a 400 JSON error. Handlers return a
// Response: JSON, Text, HTML, Bytes, Empty, Error, Result or Async. Errors are
// classified by Classify into the HTTPError taxonomy and rendered as
//
//	{"error":{"code":"not_found","message":"Not Found"}}
package handler
