// Package router maps string paths to procedures.
//
//	base := router.New[Ctx]().Middleware(middleware.Logging[Ctx](log))
//	users := router.New[Ctx]().
//		Query("byId", userByID).
//		Mutation("create", createUser)
//	app := base.Merge("user.", users)
//
//	out, err := app.Call(ctx, procedure.TypeQuery, "user.byId", Ctx{}, 1)
package router
