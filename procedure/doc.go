// Package procedure implements the request-execution core of rpckit.
//
// A Procedure validates raw input, runs an ordered chain of middlewares and
// invokes a terminal resolver. Middlewares compose like an onion: the first
// declared starts first and finishes last. Each middleware receives the call
// arguments plus a continuation and may call it, skip it (short-circuit) or
// post-process what it returns.
//
// Procedures are generic over the caller-supplied call context C, the parsed
// input I and the output O:
//
//	type Ctx struct{ User string }
//
//	byID := procedure.MustNew(procedure.Definition[Ctx, int, User]{
//		Input: validation.JSON[int](),
//		Resolve: func(ctx context.Context, opts procedure.ResolverOptions[Ctx, int]) (User, error) {
//			return users.Get(ctx, opts.Input)
//		},
//	})
//
//	user, err := byID.Call(ctx, procedure.CallOptions[Ctx]{
//		Context:  Ctx{User: "alice"},
//		RawInput: 42,
//		Path:     "user.byId",
//		Type:     procedure.TypeQuery,
//	})
//
// Input validators are accepted in three shapes: a plain function, a value
// with a Parse method or a value with a ValidateSync method. Parser failures
// are reported as BAD_REQUEST errors wrapping the original failure.
package procedure
