package procedure

import "context"

// chain is the materialized step list of a procedure: its middlewares
// followed by the terminal handler step. It is never modified after
// construction, so one chain serves any number of concurrent calls.
type chain[C any] []MiddlewareFunc[C]

func newChain[C any](middlewares []MiddlewareFunc[C], terminal MiddlewareFunc[C]) chain[C] {
	steps := make(chain[C], 0, len(middlewares)+1)
	steps = append(steps, middlewares...)
	return append(steps, terminal)
}

// run executes the chain from step 0.
func (ch chain[C]) run(ctx context.Context, opts CallOptions[C]) (Result, error) {
	return ch.step(ctx, 0, opts.Context, opts)
}

// step invokes step i with next bound to step i+1. The terminal step has no
// successor; a Next call from it yields an unmarked result.
func (ch chain[C]) step(ctx context.Context, i int, c C, opts CallOptions[C]) (Result, error) {
	if i >= len(ch) {
		return Result{}, nil
	}
	return ch[i](ctx, MiddlewareOptions[C]{
		Context:  c,
		RawInput: opts.RawInput,
		Path:     opts.Path,
		Type:     opts.Type,
		next: func(ctx context.Context, c C) (Result, error) {
			return ch.step(ctx, i+1, c, opts)
		},
	})
}

// resolverStep wraps the handler as the terminal step: parse the raw input,
// resolve, and mark the output as chain output.
func resolverStep[C, I, O any](parse ParseFunc[I], resolve Resolver[C, I, O]) MiddlewareFunc[C] {
	return func(ctx context.Context, opts MiddlewareOptions[C]) (Result, error) {
		input, err := parse(opts.RawInput)
		if err != nil {
			return Result{}, badInput(err)
		}
		out, err := resolve(ctx, ResolverOptions[C, I]{
			Context: opts.Context,
			Input:   input,
			Type:    opts.Type,
		})
		if err != nil {
			return Result{}, err
		}
		return Complete(out), nil
	}
}
