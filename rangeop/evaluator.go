package rangeop

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/on-the-ground/memo_ive_go/value"
	"go.uber.org/zap"
)

// ErrBadArguments is returned by Call for a malformed argument list.
var ErrBadArguments = errors.New("bad named arguments")

// Evaluator drives nested RangeOperations against one Environment.
type Evaluator struct {
	env    *environment.Environment
	logger *zap.Logger
}

type Option func(*Evaluator)

func WithLogger(logger *zap.Logger) Option {
	return func(ev *Evaluator) {
		if logger != nil {
			ev.logger = logger
		}
	}
}

func NewEvaluator(env *environment.Environment, opts ...Option) *Evaluator {
	ev := &Evaluator{env: env, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

func (ev *Evaluator) Env() *environment.Environment { return ev.env }

// Evaluate folds terminal over the nested ranges in ops, outermost first.
// With no ops it resolves terminal directly. A range with no values yields its
// operator's empty result without resolving terminal.
func (ev *Evaluator) Evaluate(ops []RangeOperation, terminal environment.Computation) (value.Value, error) {
	if len(ops) == 0 {
		return ev.env.Resolve(terminal)
	}
	level, rest := ops[0], ops[1:]
	name := level.Range.Name()

	level.Operator.Initialize()
	level.Range.Initialize()
	defer level.Range.Close()

	steps := 0
	for level.Range.HasNext() {
		level.Range.Advance(ev.env)
		sub, err := ev.Evaluate(rest, terminal)
		if err != nil {
			return nil, fmt.Errorf("range %q step %d: %w", name, steps, err)
		}
		if err := level.Operator.Increment(sub); err != nil {
			return nil, fmt.Errorf("range %q step %d: folding: %w", name, steps, err)
		}
		steps++
	}

	if ce := ev.logger.Check(zap.DebugLevel, "range exhausted"); ce != nil {
		ce.Write(zap.String("range", name), zap.Int("steps", steps), zap.Int("depth", len(rest)))
	}
	return level.Operator.Result(), nil
}

// Call writes alternating name/value pairs into the environment, then resolves
// the trailing computation:
//
//	ev.Call("x", 1, "y", 2, sum)
func (ev *Evaluator) Call(args ...any) (value.Value, error) {
	if len(args)%2 != 1 {
		return nil, fmt.Errorf("%w: want name/value pairs and a computation, got %d arguments", ErrBadArguments, len(args))
	}
	terminal, ok := args[len(args)-1].(environment.Computation)
	if !ok {
		return nil, fmt.Errorf("%w: last argument is %T, not a computation", ErrBadArguments, args[len(args)-1])
	}
	pairs := args[:len(args)-1]
	for i := 0; i < len(pairs); i += 2 {
		if _, ok := pairs[i].(string); !ok {
			return nil, fmt.Errorf("%w: argument %d is %T, not a name", ErrBadArguments, i, pairs[i])
		}
	}
	for i := 0; i < len(pairs); i += 2 {
		ev.env.Write(pairs[i].(string), pairs[i+1])
	}
	return ev.env.Resolve(terminal)
}
