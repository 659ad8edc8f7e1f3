package common

// Checker runs a chain of `CheckerFunc`s over a shared state. Operations use
// it to run every precondition before the first write, the same way
// transactions were checked in the node runner.
type Checker interface {
	GetFuncs() []CheckerFunc
}

type CheckerDeferFunc func(int, Checker, error)

var DefaultDeferFunc CheckerDeferFunc = func(int, Checker, error) {}

type CheckerFunc func(Checker) error

type DefaultChecker struct {
	Funcs []CheckerFunc
}

func NewDefaultChecker(funcs ...CheckerFunc) DefaultChecker {
	return DefaultChecker{Funcs: funcs}
}

func (c *DefaultChecker) GetFuncs() []CheckerFunc {
	return c.Funcs
}

// CheckerStop can be returned by a `CheckerFunc` to end the chain without
// error.
type checkerStop struct{}

func (checkerStop) Error() string { return "stop checker" }

var CheckerStop error = checkerStop{}

func RunChecker(checker Checker, deferFunc CheckerDeferFunc) error {
	if deferFunc == nil {
		deferFunc = DefaultDeferFunc
	}

	var err error
	for i, f := range checker.GetFuncs() {
		if err = f(checker); err != nil {
			deferFunc(i, checker, err)
			if err == CheckerStop {
				return nil
			}
			return err
		}
		deferFunc(i, checker, err)
	}
	return nil
}
