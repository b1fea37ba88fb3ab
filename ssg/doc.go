// Package ssg runs queries on the server ahead of rendering and hands their
// results to the client as a dehydrated cache.
//
//	h, err := ssg.New(ssg.Options[Ctx]{Router: app, Context: Ctx{}})
//	h.PrefetchQuery(ctx, "post.byId", 1)
//	h.PrefetchInfiniteQuery(ctx, "post.list", map[string]any{"limit": 10})
//	state, err := h.Dehydrate()
//
// Cache keys are [path, input, "RPC_QUERY"] for plain queries and
// [path, input without its cursor, "RPC_INFINITE_QUERY"] for paginated ones.
package ssg
