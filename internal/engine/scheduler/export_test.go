// export_test.go exports private functions for white-box testing.
package scheduler

// BuildSteps exposes step rendering for tests.
var BuildSteps = (*Scheduler).buildSteps
