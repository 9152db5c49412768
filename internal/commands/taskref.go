package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"doitlist/internal/exitcode"
	"doitlist/internal/task"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a 1-based task number from args and returns the 0-based index.
// Only the first argument is considered; it must be a positive integer.
// Numbers beyond the list are not an error here; the store treats them as a no-op.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil || num < 1 {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num - 1, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// runIndexed parses a task reference and dispatches the action built from it.
func runIndexed(ctx context.Context, env *Env, args []string, build func(int) task.Action, out, errOut io.Writer) int {
	index, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return dispatch(ctx, env, build(index), out, errOut)
}

// dispatch applies action to the session and reports the outcome.
// Out-of-range and blank actions change nothing and still succeed.
func dispatch(ctx context.Context, env *Env, action task.Action, out, errOut io.Writer) int {
	changed, err := env.Session.Dispatch(ctx, action)
	if err != nil {
		env.Debugf("dispatch: %v", err)
		fmt.Fprintln(errOut, "error: storage error: changes were not saved")
		return exitcode.StorageError
	}

	if !env.Config.Quiet {
		if changed {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "nothing to do")
		}
	}
	return exitcode.Success
}
