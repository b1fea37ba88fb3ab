package procedure

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/kbukum/rpckit/errors"
	"github.com/kbukum/rpckit/logger"
)

var (
	// ErrMissingMarker is the cause of an internal error raised when the
	// chain returns a result that was not produced by the handler step or
	// by Complete.
	ErrMissingMarker = stderrors.New("procedure: chain result is missing the completion marker")
	// ErrOutputType is the cause of an internal error raised when the chain
	// output does not have the procedure's output type.
	ErrOutputType = stderrors.New("procedure: chain output has an unexpected type")
)

// badInput classifies a parser failure. The original failure is kept as the
// cause and provides the message.
func badInput(err error) *errors.AppError {
	return errors.Wrap(errors.ErrCodeBadRequest, err, "")
}

// malformed reports a chain result the engine cannot hand to the caller.
func malformed(cause error, path string, typ Type) *errors.AppError {
	logger.Get("procedure").Error("malformed chain result", map[string]interface{}{
		logger.FieldPath:          path,
		logger.FieldProcedureType: string(typ),
		logger.FieldError:         cause.Error(),
	})
	return errors.Internal(cause)
}

// outputOf extracts the typed output of a completed chain.
func outputOf[O any](res Result, path string, typ Type) (O, error) {
	var zero O
	if !res.OK() {
		return zero, malformed(ErrMissingMarker, path, typ)
	}
	if res.Output == nil {
		if nillable[O]() {
			return zero, nil
		}
		return zero, malformed(fmt.Errorf("%w: got nil, want %T", ErrOutputType, zero), path, typ)
	}
	out, ok := res.Output.(O)
	if !ok {
		return zero, malformed(fmt.Errorf("%w: got %T, want %T", ErrOutputType, res.Output, zero), path, typ)
	}
	return out, nil
}

// nillable reports whether nil is a valid value of O.
func nillable[O any]() bool {
	switch reflect.TypeFor[O]().Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
