// Package milp defines a small pure-binary mixed-integer linear program and a
// branch-and-bound solver built on gonum's simplex implementation.
//
// A Problem lists a linear objective over binary variables and a set of named
// rows (equalities or inequalities). Solvers return a Solution whose Status
// tells optimal and infeasible outcomes apart; any other failure, including
// node limits and context cancellation, is returned as an error.
package milp
