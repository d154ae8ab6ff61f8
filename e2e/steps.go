package e2e

import (
	"github.com/cucumber/godog"

	"campuscoffee/e2e/steps/pos"
)

// RegisterSteps registers all step definitions for one scenario.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	pos.RegisterSteps(ctx, tc)
}
