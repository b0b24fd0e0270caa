package solver

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	satpb "github.com/google/or-tools/ortools/sat/proto/satparameters"
)

// DefaultSolveBudget bounds how long a single solve may run before the
// backend returns its best feasible answer so far.
const DefaultSolveBudget = 30 * time.Second

// solveResult carries the raw CP-SAT response alongside the wall time
// actually spent, so assemble.go never has to touch the proto directly.
type solveResult struct {
	response *cmpb.CpSolverResponse
	status   cmpb.CpSolverStatus
	wallTime time.Duration
}

// runSolver invokes the CP-SAT backend under budget and classifies the
// outcome. A hard error is only returned for a malformed model or a
// backend-level failure; INFEASIBLE/UNKNOWN are reported through status,
// not error, since they are legitimate scheduling outcomes.
func runSolver(m *cpModel, budget time.Duration) (solveResult, error) {
	if budget <= 0 {
		budget = DefaultSolveBudget
	}

	proto, err := m.builder.Model()
	if err != nil {
		return solveResult{}, fmt.Errorf("build cp-sat model: %w", err)
	}

	params := &satpb.SatParameters{
		MaxTimeInSeconds: budget.Seconds(),
	}

	start := time.Now()
	response, err := cpmodel.SolveCpModelWithParameters(proto, params)
	elapsed := time.Since(start)
	if err != nil {
		return solveResult{}, fmt.Errorf("solve cp-sat model: %w", err)
	}

	return solveResult{
		response: response,
		status:   response.GetStatus(),
		wallTime: elapsed,
	}, nil
}

// solverSucceeded reports whether the backend found a schedule worth
// assembling (optimal or merely feasible within budget).
func solverSucceeded(status cmpb.CpSolverStatus) bool {
	return status == cmpb.CpSolverStatus_OPTIMAL || status == cmpb.CpSolverStatus_FEASIBLE
}
